package usecase

import (
	"context"
	"sync"

	"webhook-gateway/services/notification/internal/entity"
)

// recordingHandlers remembers every call; err and panicOn let tests force failures.
type recordingHandlers struct {
	mu      sync.Mutex
	calls   []string
	events  []entity.Event
	err     error
	panicOn entity.Kind
}

func (r *recordingHandlers) record(name string, e entity.Event) error {
	r.mu.Lock()
	r.calls = append(r.calls, name)
	r.events = append(r.events, e)
	r.mu.Unlock()
	if r.panicOn != entity.KindOther && r.panicOn == e.Kind() {
		panic("boom")
	}
	return r.err
}

func (r *recordingHandlers) VisitMilestone(_ context.Context, e entity.MilestoneEvent) error {
	return r.record("milestone", e)
}

func (r *recordingHandlers) VisitPayment(_ context.Context, e entity.PaymentEvent) error {
	return r.record("payment", e)
}

func (r *recordingHandlers) VisitFKSReward(_ context.Context, e entity.FKSRewardEvent) error {
	return r.record("fks_reward", e)
}

func (r *recordingHandlers) VisitSocial(_ context.Context, e entity.SocialEvent) error {
	return r.record("social", e)
}

func (r *recordingHandlers) VisitIgnored(_ context.Context, e entity.IgnoredEvent) error {
	return r.record("ignored", e)
}

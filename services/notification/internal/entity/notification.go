package entity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedPayload wraps any failure to decode an inbound notification body.
var ErrMalformedPayload = errors.New("malformed notification payload")

// Notification is the inbound webhook envelope. Data is passed through untouched;
// which of its keys matter depends on Type.
type Notification struct {
	Type   string                 `json:"type"`
	UserID string                 `json:"userId"`
	Title  string                 `json:"title"`
	Data   map[string]interface{} `json:"data"`
}

// Kind is the closed set of notification kinds the service knows about.
type Kind int

const (
	KindOther Kind = iota
	KindMilestone
	KindPayment
	KindFKSReward
	KindSocial
)

func (k Kind) String() string {
	switch k {
	case KindMilestone:
		return "milestone"
	case KindPayment:
		return "payment"
	case KindFKSReward:
		return "fks_reward"
	case KindSocial:
		return "social"
	default:
		return "other"
	}
}

// ParseKind maps a wire type onto a Kind by exact, case-sensitive match.
func ParseKind(s string) Kind {
	switch s {
	case "milestone":
		return KindMilestone
	case "payment":
		return KindPayment
	case "fks_reward":
		return KindFKSReward
	case "social":
		return KindSocial
	default:
		return KindOther
	}
}

// Event is one classified notification. The set of implementations is sealed to
// this package; use Classify to build one.
type Event interface {
	Kind() Kind
	Envelope() Notification
	// Accept calls the Visitor method matching the event's variant.
	Accept(ctx context.Context, v Visitor) error
	isEvent()
}

// Visitor has one method per Event variant. Adding a variant adds a method here,
// so every implementation stops compiling until it handles the new case.
type Visitor interface {
	VisitMilestone(ctx context.Context, e MilestoneEvent) error
	VisitPayment(ctx context.Context, e PaymentEvent) error
	VisitFKSReward(ctx context.Context, e FKSRewardEvent) error
	VisitSocial(ctx context.Context, e SocialEvent) error
	VisitIgnored(ctx context.Context, e IgnoredEvent) error
}

type base struct {
	n Notification
}

func (b base) Envelope() Notification { return b.n }
func (base) isEvent()                 {}

type MilestoneEvent struct{ base }

func (MilestoneEvent) Kind() Kind { return KindMilestone }

func (e MilestoneEvent) Accept(ctx context.Context, v Visitor) error {
	return v.VisitMilestone(ctx, e)
}

func (e MilestoneEvent) MilestoneID() (interface{}, bool) { return e.field("milestoneId") }
func (e MilestoneEvent) TokensEarned() (interface{}, bool) { return e.field("tokensEarned") }

type PaymentEvent struct{ base }

func (PaymentEvent) Kind() Kind { return KindPayment }

func (e PaymentEvent) Accept(ctx context.Context, v Visitor) error {
	return v.VisitPayment(ctx, e)
}

func (e PaymentEvent) Amount() (interface{}, bool)   { return e.field("amount") }
func (e PaymentEvent) Currency() (interface{}, bool) { return e.field("currency") }

type FKSRewardEvent struct{ base }

func (FKSRewardEvent) Kind() Kind { return KindFKSReward }

func (e FKSRewardEvent) Accept(ctx context.Context, v Visitor) error {
	return v.VisitFKSReward(ctx, e)
}

func (e FKSRewardEvent) BonusAmount() (interface{}, bool) { return e.field("bonusAmount") }

type SocialEvent struct{ base }

func (SocialEvent) Kind() Kind { return KindSocial }

func (e SocialEvent) Accept(ctx context.Context, v Visitor) error {
	return v.VisitSocial(ctx, e)
}

// IgnoredEvent carries any notification whose type is not recognised.
type IgnoredEvent struct{ base }

func (IgnoredEvent) Kind() Kind { return KindOther }

func (e IgnoredEvent) Accept(ctx context.Context, v Visitor) error {
	return v.VisitIgnored(ctx, e)
}

// Classify picks the variant for n. Unknown and empty types become IgnoredEvent.
func Classify(n Notification) Event {
	b := base{n: n}
	switch ParseKind(n.Type) {
	case KindMilestone:
		return MilestoneEvent{b}
	case KindPayment:
		return PaymentEvent{b}
	case KindFKSReward:
		return FKSRewardEvent{b}
	case KindSocial:
		return SocialEvent{b}
	default:
		return IgnoredEvent{b}
	}
}

// field reads an optional data key; a nil data map behaves as empty.
func (b base) field(key string) (interface{}, bool) {
	v, ok := b.n.Data[key]
	return v, ok
}

// DecodeNotification reads exactly one JSON object from r. Anything that is not a
// JSON object (including null) or is followed by more input is rejected with
// ErrMalformedPayload. Envelope fields are read loosely: a field of the wrong JSON
// type is treated as absent, so the event falls through to IgnoredEvent rather
// than failing.
func DecodeNotification(r io.Reader) (Notification, error) {
	dec := json.NewDecoder(r)

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return Notification{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after JSON object")
		}
		return Notification{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	obj, ok := raw.(map[string]interface{})
	if !ok {
		return Notification{}, fmt.Errorf("%w: body is not a JSON object", ErrMalformedPayload)
	}

	n := Notification{
		Type:   stringField(obj, "type"),
		UserID: stringField(obj, "userId"),
		Title:  stringField(obj, "title"),
	}
	if data, ok := obj["data"].(map[string]interface{}); ok {
		n.Data = data
	}
	return n, nil
}

func stringField(obj map[string]interface{}, key string) string {
	s, _ := obj[key].(string)
	return s
}

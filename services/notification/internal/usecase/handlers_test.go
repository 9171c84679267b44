package usecase

import (
	"context"
	"testing"

	"webhook-gateway/pkg/logger"
	"webhook-gateway/services/notification/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedHandlers() (*LoggingHandlers, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return NewLoggingHandlers(logger.Wrap(zap.New(core))), logs
}

func dispatchTo(t *testing.T, h entity.Visitor, n entity.Notification) {
	t.Helper()
	require.NoError(t, entity.Classify(n).Accept(context.Background(), h))
}

func TestLoggingHandlers_Payment(t *testing.T) {
	h, logs := newObservedHandlers()

	dispatchTo(t, h, entity.Notification{
		Type:   "payment",
		UserID: "u1",
		Data:   map[string]interface{}{"amount": 10.0, "currency": "USD"},
	})

	entries := logs.FilterMessage("Payment notification").AllUntimed()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "u1", fields["userId"])
	assert.Equal(t, 10.0, fields["amount"])
	assert.Equal(t, "USD", fields["currency"])
}

func TestLoggingHandlers_Milestone(t *testing.T) {
	h, logs := newObservedHandlers()

	dispatchTo(t, h, entity.Notification{
		Type: "milestone",
		Data: map[string]interface{}{"milestoneId": "m1", "tokensEarned": 42.0},
	})

	entries := logs.FilterMessage("Milestone notification").AllUntimed()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "m1", fields["milestoneId"])
	assert.Equal(t, 42.0, fields["tokensEarned"])
}

func TestLoggingHandlers_FKSReward(t *testing.T) {
	h, logs := newObservedHandlers()

	dispatchTo(t, h, entity.Notification{
		Type: "fks_reward",
		Data: map[string]interface{}{"bonusAmount": 7.5},
	})

	entries := logs.FilterMessage("FKS reward notification").AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, 7.5, entries[0].ContextMap()["bonusAmount"])
}

func TestLoggingHandlers_SocialAndIgnored(t *testing.T) {
	h, logs := newObservedHandlers()

	dispatchTo(t, h, entity.Notification{Type: "social", UserID: "u2"})
	dispatchTo(t, h, entity.Notification{Type: "unknown_xyz"})

	assert.Equal(t, 1, logs.FilterMessage("Social notification").Len())
	ignored := logs.FilterMessage("Unknown notification type, ignoring").AllUntimed()
	require.Len(t, ignored, 1)
	assert.Equal(t, "unknown_xyz", ignored[0].ContextMap()["type"])
}

func TestLoggingHandlers_MissingDataDoesNotFail(t *testing.T) {
	h, logs := newObservedHandlers()

	dispatchTo(t, h, entity.Notification{Type: "payment"})

	entries := logs.FilterMessage("Payment notification").AllUntimed()
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].ContextMap()["amount"])
}

package usecase

import (
	"context"

	"webhook-gateway/pkg/logger"
	"webhook-gateway/services/notification/internal/entity"

	"go.uber.org/zap"
)

// LoggingHandlers is the stub handler set: every variant is only logged.
// Email, accounting and token distribution will hang off these methods.
type LoggingHandlers struct {
	log *zap.Logger
}

var _ entity.Visitor = (*LoggingHandlers)(nil)

func NewLoggingHandlers(log *logger.Logger) *LoggingHandlers {
	return &LoggingHandlers{log: log.Zap().With(zap.String("component", "notification_handlers"))}
}

func (h *LoggingHandlers) VisitMilestone(_ context.Context, e entity.MilestoneEvent) error {
	milestoneID, _ := e.MilestoneID()
	tokensEarned, _ := e.TokensEarned()
	h.log.Info("Milestone notification",
		zap.String("userId", e.Envelope().UserID),
		zap.Any("milestoneId", milestoneID),
		zap.Any("tokensEarned", tokensEarned),
	)
	return nil
}

func (h *LoggingHandlers) VisitPayment(_ context.Context, e entity.PaymentEvent) error {
	amount, _ := e.Amount()
	currency, _ := e.Currency()
	h.log.Info("Payment notification",
		zap.String("userId", e.Envelope().UserID),
		zap.Any("amount", amount),
		zap.Any("currency", currency),
	)
	return nil
}

func (h *LoggingHandlers) VisitFKSReward(_ context.Context, e entity.FKSRewardEvent) error {
	bonusAmount, _ := e.BonusAmount()
	h.log.Info("FKS reward notification",
		zap.String("userId", e.Envelope().UserID),
		zap.Any("bonusAmount", bonusAmount),
	)
	return nil
}

func (h *LoggingHandlers) VisitSocial(_ context.Context, e entity.SocialEvent) error {
	h.log.Info("Social notification", zap.Any("event", e.Envelope()))
	return nil
}

func (h *LoggingHandlers) VisitIgnored(_ context.Context, e entity.IgnoredEvent) error {
	h.log.Info("Unknown notification type, ignoring",
		zap.String("type", e.Envelope().Type),
		zap.String("userId", e.Envelope().UserID),
	)
	return nil
}

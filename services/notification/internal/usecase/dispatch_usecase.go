package usecase

import (
	"context"
	"errors"
	"fmt"

	"webhook-gateway/pkg/logger"
	"webhook-gateway/pkg/metrics"
	"webhook-gateway/services/notification/internal/entity"
)

// ErrHandlerPanic is returned when a notification handler panics.
var ErrHandlerPanic = errors.New("notification handler panicked")

// DispatchUseCase routes one notification to its handler and acknowledges it.
// It never fulfils anything itself.
type DispatchUseCase interface {
	Dispatch(ctx context.Context, notification entity.Notification) (entity.Kind, error)
}

type dispatchUseCase struct {
	handlers entity.Visitor
	metrics  *metrics.Webhook
	logger   *logger.Logger
}

func NewDispatchUseCase(handlers entity.Visitor, m *metrics.Webhook, logger *logger.Logger) DispatchUseCase {
	return &dispatchUseCase{
		handlers: handlers,
		metrics:  m,
		logger:   logger,
	}
}

func (uc *dispatchUseCase) Dispatch(ctx context.Context, notification entity.Notification) (kind entity.Kind, err error) {
	event := entity.Classify(notification)
	kind = event.Kind()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, rec)
		}
		switch {
		case err != nil:
			uc.metrics.ObserveNotification(kind.String(), metrics.OutcomeFailed)
			err = fmt.Errorf("failed to handle %s notification: %w", kind, err)
		case kind == entity.KindOther:
			uc.metrics.ObserveNotification(kind.String(), metrics.OutcomeIgnored)
		default:
			uc.metrics.ObserveNotification(kind.String(), metrics.OutcomeProcessed)
		}
	}()

	uc.logger.Debug("[WEBHOOK] Dispatching notification: type=%s kind=%s user_id=%s", notification.Type, kind, notification.UserID)
	return kind, event.Accept(ctx, uc.handlers)
}

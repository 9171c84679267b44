package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for WebhookNotifications.
const (
	OutcomeProcessed = "processed"
	OutcomeIgnored   = "ignored"
	OutcomeFailed    = "failed"
)

// Webhook groups the counters exported by the webhook service.
type Webhook struct {
	Notifications *prometheus.CounterVec
	AuthFailures  prometheus.Counter
}

// NewWebhook creates the webhook counters and registers them on reg.
func NewWebhook(reg prometheus.Registerer) *Webhook {
	m := &Webhook{
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_notifications_total",
			Help: "Notification events received, by type and dispatch outcome.",
		}, []string{"type", "outcome"}),
		AuthFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webhook_auth_failures_total",
			Help: "Webhook requests rejected for a missing or wrong bearer secret.",
		}),
	}
	reg.MustRegister(m.Notifications, m.AuthFailures)
	return m
}

// ObserveNotification is nil-safe so callers without metrics can skip wiring.
func (m *Webhook) ObserveNotification(eventType, outcome string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(eventType, outcome).Inc()
}

func (m *Webhook) ObserveAuthFailure() {
	if m == nil {
		return
	}
	m.AuthFailures.Inc()
}

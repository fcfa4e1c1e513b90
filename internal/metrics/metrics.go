// Package metrics регистрирует счётчики Prometheus сервиса.
// Все методы безопасно вызывать на nil-получателе.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hustlefinder"

// Metrics набор счётчиков.
type Metrics struct {
	generations   *prometheus.CounterVec
	quotaDenials  *prometheus.CounterVec
	webhookEvents *prometheus.CounterVec
	authEvents    *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// New регистрирует счётчики в reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		generations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Generation attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		quotaDenials: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_denials_total",
			Help:      "Generation requests rejected by the usage quota.",
		}, []string{"identity"}),
		webhookEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Payment webhook events by type and outcome.",
		}, []string{"type", "outcome"}),
		authEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Session lifecycle events.",
		}, []string{"event"}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification emails by delivery outcome.",
		}, []string{"outcome"}),
	}
}

// Generation учитывает попытку генерации у провайдера.
func (m *Metrics) Generation(provider, outcome string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(provider, outcome).Inc()
}

// QuotaDenied учитывает отказ по лимиту.
func (m *Metrics) QuotaDenied(identity string) {
	if m == nil {
		return
	}
	m.quotaDenials.WithLabelValues(identity).Inc()
}

// WebhookEvent учитывает обработанное событие вебхука.
func (m *Metrics) WebhookEvent(eventType, outcome string) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

// AuthEvent учитывает событие сессии.
func (m *Metrics) AuthEvent(event string) {
	if m == nil {
		return
	}
	m.authEvents.WithLabelValues(event).Inc()
}

// Notification учитывает результат отправки письма.
func (m *Metrics) Notification(outcome string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(outcome).Inc()
}

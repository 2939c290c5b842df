package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records payment and webhook activity.
type StorefrontMetrics struct {
	paymentInits    *prometheus.CounterVec
	webhookEvents   *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided
// registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	paymentInits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_initializations",
		Help: "Payment initialization attempts by outcome.",
	}, []string{"outcome"})
	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events",
		Help: "Gateway webhook deliveries by event and outcome.",
	}, []string{"event", "outcome"})
	gatewayDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_request_duration_seconds",
		Help:    "Duration of payment gateway calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(paymentInits, webhookEvents, gatewayDuration)
	return &StorefrontMetrics{
		paymentInits:    paymentInits,
		webhookEvents:   webhookEvents,
		gatewayDuration: gatewayDuration,
	}
}

// IncPaymentInit increments the initialization counter for the given outcome.
func (m *StorefrontMetrics) IncPaymentInit(outcome string) {
	if m == nil || m.paymentInits == nil {
		return
	}
	m.paymentInits.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncWebhookEvent increments the webhook counter for the event and outcome.
func (m *StorefrontMetrics) IncWebhookEvent(event, outcome string) {
	if m == nil || m.webhookEvents == nil {
		return
	}
	m.webhookEvents.WithLabelValues(normalizeLabel(event), normalizeLabel(outcome)).Inc()
}

// ObserveGatewayDuration records the duration of a gateway call.
func (m *StorefrontMetrics) ObserveGatewayDuration(operation string, duration time.Duration) {
	if m == nil || m.gatewayDuration == nil {
		return
	}
	m.gatewayDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

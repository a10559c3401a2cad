package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeCreated = "created"

	CompensationOK     = "ok"
	CompensationFailed = "failed"
)

// IntakeMetrics records outcomes of the public order intake pipeline.
type IntakeMetrics struct {
	orders        *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	compensations *prometheus.CounterVec
	degraded      *prometheus.CounterVec
}

// NewIntakeMetrics registers the intake metrics on the provided registerer.
func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	if reg == nil {
		return &IntakeMetrics{}
	}
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "intake_orders_total",
		Help: "Order intake requests by outcome code and service type.",
	}, []string{"outcome", "service_type"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "intake_duration_seconds",
		Help:    "Duration of order intake requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	compensations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "intake_compensations_total",
		Help: "Order write compensations by cleanup result.",
	}, []string{"result"})
	degraded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "intake_delivery_degraded_total",
		Help: "Delivery quotes that fell back to a degraded amount.",
	}, []string{"reason"})
	reg.MustRegister(orders, duration, compensations, degraded)
	return &IntakeMetrics{
		orders:        orders,
		duration:      duration,
		compensations: compensations,
		degraded:      degraded,
	}
}

// ObserveOutcome records the final outcome and latency of one intake request.
func (m *IntakeMetrics) ObserveOutcome(outcome, serviceType string, elapsed time.Duration) {
	if m == nil || m.orders == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	m.orders.WithLabelValues(outcome, normalizeLabel(serviceType)).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// IncCompensation counts a compensation run with its cleanup result.
func (m *IntakeMetrics) IncCompensation(result string) {
	if m == nil || m.compensations == nil {
		return
	}
	m.compensations.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncDeliveryDegraded counts a degraded delivery quote.
func (m *IntakeMetrics) IncDeliveryDegraded(reason string) {
	if m == nil || m.degraded == nil {
		return
	}
	m.degraded.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

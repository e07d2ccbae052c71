package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RegisterMetrics records the terminal's operational signals: live sessions,
// checkout submissions, phone verifications and pricing recomputes.
type RegisterMetrics struct {
	activeSessions   prometheus.Gauge
	checkoutDuration *prometheus.HistogramVec
	checkoutTotal    *prometheus.CounterVec
	verifications    *prometheus.CounterVec
	pricingComputes  prometheus.Counter
}

// NewRegisterMetrics registers the terminal metrics on the provided registerer.
func NewRegisterMetrics(reg prometheus.Registerer) *RegisterMetrics {
	if reg == nil {
		return &RegisterMetrics{}
	}
	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sessions_active",
		Help: "Terminal sessions currently open.",
	})
	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
	checkoutTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_total",
		Help: "Checkout submissions by mode and outcome.",
	}, []string{"mode", "outcome"})
	verifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "customer_verifications_total",
		Help: "Phone verification lookups by resolution.",
	}, []string{"resolution"})
	pricingComputes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricing_recomputes_total",
		Help: "Pricing breakdown recomputations.",
	})
	reg.MustRegister(activeSessions, checkoutDuration, checkoutTotal, verifications, pricingComputes)
	return &RegisterMetrics{
		activeSessions:   activeSessions,
		checkoutDuration: checkoutDuration,
		checkoutTotal:    checkoutTotal,
		verifications:    verifications,
		pricingComputes:  pricingComputes,
	}
}

// SessionOpened moves the live session gauge up by one.
func (m *RegisterMetrics) SessionOpened() {
	if m == nil || m.activeSessions == nil {
		return
	}
	m.activeSessions.Inc()
}

// SessionClosed moves the live session gauge down by one.
func (m *RegisterMetrics) SessionClosed() {
	if m == nil || m.activeSessions == nil {
		return
	}
	m.activeSessions.Dec()
}

// ObserveCheckout records the duration and outcome of one checkout submission.
func (m *RegisterMetrics) ObserveCheckout(mode string, duration time.Duration, success bool) {
	if m == nil || m.checkoutTotal == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.checkoutDuration.WithLabelValues(normalizeLabel(mode)).Observe(duration.Seconds())
	m.checkoutTotal.WithLabelValues(normalizeLabel(mode), outcome).Inc()
}

// IncVerification counts one completed phone lookup with its resolution.
func (m *RegisterMetrics) IncVerification(resolution string) {
	if m == nil || m.verifications == nil {
		return
	}
	m.verifications.WithLabelValues(normalizeLabel(resolution)).Inc()
}

// IncPricingCompute counts one pricing breakdown recomputation.
func (m *RegisterMetrics) IncPricingCompute() {
	if m == nil || m.pricingComputes == nil {
		return
	}
	m.pricingComputes.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

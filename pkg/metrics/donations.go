package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DonationMetrics records ledger and account activity.
type DonationMetrics struct {
	requests       *prometheus.CounterVec
	payments       *prometheus.CounterVec
	donatedCents   prometheus.Counter
	depositedCents prometheus.Counter
	fulfilled      prometheus.Counter
}

// NewDonationMetrics registers the donation metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewDonationMetrics(reg prometheus.Registerer) *DonationMetrics {
	if reg == nil {
		return &DonationMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "donation_request_transitions_total",
		Help: "Donation request lifecycle transitions by resulting status.",
	}, []string{"status"})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "donation_payments_total",
		Help: "Payment attempts against donation requests by outcome.",
	}, []string{"outcome"})
	donated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "donation_donated_cents_total",
		Help: "Total amount donated in minor units.",
	})
	deposited := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "donation_deposited_cents_total",
		Help: "Total amount deposited into donor accounts in minor units.",
	})
	fulfilled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "donation_requests_fulfilled_total",
		Help: "Donation requests that reached their target amount.",
	})
	reg.MustRegister(requests, payments, donated, deposited, fulfilled)
	return &DonationMetrics{
		requests:       requests,
		payments:       payments,
		donatedCents:   donated,
		depositedCents: deposited,
		fulfilled:      fulfilled,
	}
}

// RequestTransition counts a request entering the given status.
func (m *DonationMetrics) RequestTransition(status string) {
	if m == nil || m.requests == nil {
		return
	}
	m.requests.WithLabelValues(normalizeLabel(status)).Inc()
}

// PaymentSucceeded records a successful payment and whether it fulfilled the request.
func (m *DonationMetrics) PaymentSucceeded(amount int64, fulfilled bool) {
	if m == nil || m.payments == nil {
		return
	}
	m.payments.WithLabelValues("success").Inc()
	m.donatedCents.Add(float64(amount))
	if fulfilled {
		m.fulfilled.Inc()
	}
}

// PaymentRejected records a payment refused with the given error code.
func (m *DonationMetrics) PaymentRejected(code string) {
	if m == nil || m.payments == nil {
		return
	}
	m.payments.WithLabelValues(normalizeLabel(code)).Inc()
}

// Deposited records a deposit into a donor account.
func (m *DonationMetrics) Deposited(amount int64) {
	if m == nil || m.depositedCents == nil {
		return
	}
	m.depositedCents.Add(float64(amount))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

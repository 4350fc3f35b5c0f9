package metrics

import "github.com/prometheus/client_golang/prometheus"

// ClinicMetrics exposes counters for the booking and billing flows.
type ClinicMetrics struct {
	bookingsCreated   *prometheus.CounterVec
	bookingsRejected  *prometheus.CounterVec
	bookingsCancelled prometheus.Counter
	invoicesIssued    prometheus.Counter
}

func NewClinicMetrics(reg prometheus.Registerer) *ClinicMetrics {
	m := &ClinicMetrics{
		bookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "created_total",
			Help:      "Total bookings created",
		}, []string{"kind"}),
		bookingsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "rejected_total",
			Help:      "Total booking creations rejected",
		}, []string{"reason"}),
		bookingsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "cancelled_total",
			Help:      "Total bookings cancelled",
		}),
		invoicesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "billing",
			Name:      "invoices_issued_total",
			Help:      "Total invoices issued",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsCreated, m.bookingsRejected, m.bookingsCancelled, m.invoicesIssued)
	return m
}

func (m *ClinicMetrics) ObserveBookingCreated(kind string) {
	if m == nil {
		return
	}
	m.bookingsCreated.WithLabelValues(kind).Inc()
}

func (m *ClinicMetrics) ObserveBookingRejected(reason string) {
	if m == nil {
		return
	}
	m.bookingsRejected.WithLabelValues(reason).Inc()
}

func (m *ClinicMetrics) ObserveBookingCancelled() {
	if m == nil {
		return
	}
	m.bookingsCancelled.Inc()
}

func (m *ClinicMetrics) ObserveInvoiceIssued() {
	if m == nil {
		return
	}
	m.invoicesIssued.Inc()
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics counts booking engine outcomes. A nil *BookingMetrics is
// valid and records nothing.
type BookingMetrics struct {
	bookingsTotal      *prometheus.CounterVec
	reschedulesTotal   *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	slotsGenerated     prometheus.Histogram
	rateLimitedTotal   prometheus.Counter
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "booking",
			Name:      "confirm_total",
			Help:      "Booking confirmations by result",
		}, []string{"result"}),
		reschedulesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "booking",
			Name:      "reschedule_total",
			Help:      "Reschedules by result",
		}, []string{"result"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "notify",
			Name:      "messages_total",
			Help:      "Post-commit notifications by status",
		}, []string{"status"}),
		slotsGenerated: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agenda",
			Subsystem: "availability",
			Name:      "slots_generated",
			Help:      "Slots produced per staff member and day",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
		rateLimitedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Public requests rejected by the rate limiter",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.bookingsTotal,
		m.reschedulesTotal,
		m.notificationsTotal,
		m.slotsGenerated,
		m.rateLimitedTotal,
	)
	return m
}

func (m *BookingMetrics) ObserveBooking(result string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(result).Inc()
}

func (m *BookingMetrics) ObserveReschedule(result string) {
	if m == nil {
		return
	}
	m.reschedulesTotal.WithLabelValues(result).Inc()
}

func (m *BookingMetrics) ObserveNotification(status string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveSlots(n int) {
	if m == nil {
		return
	}
	m.slotsGenerated.Observe(float64(n))
}

func (m *BookingMetrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.rateLimitedTotal.Inc()
}

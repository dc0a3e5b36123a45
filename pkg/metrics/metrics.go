package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus метрик сервиса
// Все методы безопасны для nil получателя: при выключенных метриках передаётся nil
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration    *prometheus.HistogramVec
	dbOpenConnections  prometheus.Gauge
	dbInUseConnections prometheus.Gauge
	dbIdleConnections  prometheus.Gauge
	dbWaitCount        prometheus.Gauge

	bookingsCreated    *prometheus.CounterVec
	slotConflicts      prometheus.Counter
	bookingTransitions *prometheus.CounterVec
	invoicesCreated    *prometheus.CounterVec
	invoiceTransitions *prometheus.CounterVec
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в указанном registerer
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests.",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency.",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		dbOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections.",
			ConstLabels: labels,
		}),
		dbInUseConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use.",
			ConstLabels: labels,
		}),
		dbIdleConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections.",
			ConstLabels: labels,
		}),
		dbWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for.",
			ConstLabels: labels,
		}),
		bookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Bookings created by initial status.",
			ConstLabels: labels,
		}, []string{"status"}),
		slotConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "booking_slot_conflicts_total",
			Help:        "Booking attempts rejected because the slot was taken.",
			ConstLabels: labels,
		}),
		bookingTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_transitions_total",
			Help:        "Booking status transitions.",
			ConstLabels: labels,
		}, []string{"to", "actor"}),
		invoicesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "invoices_created_total",
			Help:        "Invoices created by source.",
			ConstLabels: labels,
		}, []string{"source"}),
		invoiceTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "invoice_transitions_total",
			Help:        "Invoice status transitions.",
			ConstLabels: labels,
		}, []string{"from", "to"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbOpenConnections,
		m.dbInUseConnections,
		m.dbIdleConnections,
		m.dbWaitCount,
		m.bookingsCreated,
		m.slotConflicts,
		m.bookingTransitions,
		m.invoicesCreated,
		m.invoiceTransitions,
	)

	return m
}

// ObserveHTTPRequest записывает метрики HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery записывает длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет метрики пула соединений
func (m *Metrics) SetDBPoolStats(open, inUse, idle int, waitCount int64) {
	if m == nil {
		return
	}
	m.dbOpenConnections.Set(float64(open))
	m.dbInUseConnections.Set(float64(inUse))
	m.dbIdleConnections.Set(float64(idle))
	m.dbWaitCount.Set(float64(waitCount))
}

// IncBookingCreated увеличивает счётчик созданных бронирований
func (m *Metrics) IncBookingCreated(status string) {
	if m == nil {
		return
	}
	m.bookingsCreated.WithLabelValues(status).Inc()
}

// IncSlotConflict увеличивает счётчик конфликтов слотов
func (m *Metrics) IncSlotConflict() {
	if m == nil {
		return
	}
	m.slotConflicts.Inc()
}

// IncBookingTransition увеличивает счётчик переходов статуса бронирования
func (m *Metrics) IncBookingTransition(to, actor string) {
	if m == nil {
		return
	}
	m.bookingTransitions.WithLabelValues(to, actor).Inc()
}

// IncInvoiceCreated увеличивает счётчик созданных счетов
func (m *Metrics) IncInvoiceCreated(source string) {
	if m == nil {
		return
	}
	m.invoicesCreated.WithLabelValues(source).Inc()
}

// IncInvoiceTransition увеличивает счётчик переходов статуса счета
func (m *Metrics) IncInvoiceTransition(from, to string) {
	if m == nil {
		return
	}
	m.invoiceTransitions.WithLabelValues(from, to).Inc()
}

// Package metrics defines the Prometheus collectors of the invoicer.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every collector. A nil *Metrics is valid and records nothing,
// so packages can take one as an optional dependency.
type Metrics struct {
	rpcDuration        *prometheus.HistogramVec
	invoicesIssued     *prometheus.CounterVec
	numberFallbacks    prometheus.Counter
	storageUnavailable *prometheus.CounterVec
	emailsSent         *prometheus.CounterVec
	documentsRendered  *prometheus.CounterVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns collectors registered on prometheus.DefaultRegisterer.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = New(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// New creates collectors and registers them on registerer.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		rpcDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "invoicer_rpc_duration_seconds",
				Help:    "Duration of Connect RPC calls.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"procedure", "code"},
		),
		invoicesIssued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoicer_invoices_saved_total",
				Help: "Invoices persisted, by kind.",
			},
			[]string{"kind"}, // issued | draft
		),
		numberFallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "invoicer_invoice_number_fallback_total",
				Help: "Invoice numbers issued from the timestamp fallback because the counter transaction failed.",
			},
		),
		storageUnavailable: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoicer_storage_unavailable_total",
				Help: "Listings served as unavailable because the store could not be read.",
			},
			[]string{"entity"},
		),
		emailsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoicer_emails_sent_total",
				Help: "Invoice emails dispatched, by result.",
			},
			[]string{"result"}, // ok | reauth | error
		),
		documentsRendered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoicer_documents_rendered_total",
				Help: "Invoice PDFs rendered, by result.",
			},
			[]string{"result"},
		),
	}

	registerer.MustRegister(
		m.rpcDuration,
		m.invoicesIssued,
		m.numberFallbacks,
		m.storageUnavailable,
		m.emailsSent,
		m.documentsRendered,
	)
	return m
}

// ObserveRPC records one RPC call.
func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(procedure, code).Observe(d.Seconds())
}

// InvoiceSaved counts a persisted invoice.
func (m *Metrics) InvoiceSaved(draft bool) {
	if m == nil {
		return
	}
	kind := "issued"
	if draft {
		kind = "draft"
	}
	m.invoicesIssued.WithLabelValues(kind).Inc()
}

// NumberFallback counts a degraded invoice number.
func (m *Metrics) NumberFallback() {
	if m == nil {
		return
	}
	m.numberFallbacks.Inc()
}

// StorageUnavailable counts a degraded read of entity.
func (m *Metrics) StorageUnavailable(entity string) {
	if m == nil {
		return
	}
	m.storageUnavailable.WithLabelValues(entity).Inc()
}

// EmailSent counts a dispatch attempt with its result.
func (m *Metrics) EmailSent(result string) {
	if m == nil {
		return
	}
	m.emailsSent.WithLabelValues(result).Inc()
}

// DocumentRendered counts a render attempt with its result.
func (m *Metrics) DocumentRendered(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.documentsRendered.WithLabelValues(result).Inc()
}

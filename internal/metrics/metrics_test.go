package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.NumberFallback()
	m.NumberFallback()
	if got := testutil.ToFloat64(m.numberFallbacks); got != 2 {
		t.Errorf("fallbacks = %v, want 2", got)
	}

	m.StorageUnavailable("invoices")
	if got := testutil.ToFloat64(m.storageUnavailable.WithLabelValues("invoices")); got != 1 {
		t.Errorf("unavailable = %v, want 1", got)
	}

	m.InvoiceSaved(true)
	m.InvoiceSaved(false)
	m.InvoiceSaved(false)
	if got := testutil.ToFloat64(m.invoicesIssued.WithLabelValues("issued")); got != 2 {
		t.Errorf("issued = %v, want 2", got)
	}

	m.ObserveRPC("/invoicer.v1.InvoiceService/SubmitInvoice", "ok", 10*time.Millisecond)
	if n := testutil.CollectAndCount(m.rpcDuration); n != 1 {
		t.Errorf("rpc series = %d, want 1", n)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.NumberFallback()
	m.StorageUnavailable("expenses")
	m.EmailSent("ok")
	m.InvoiceSaved(false)
	m.DocumentRendered(true)
	m.ObserveRPC("p", "ok", time.Second)
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the billing-facing instruments. The registry is exposed so the
// server can mount /metrics without pulling in the default global registry.
type Metrics struct {
	Registry *prometheus.Registry

	BillingRuns        *prometheus.CounterVec
	BillingRunDuration prometheus.Histogram
	InvoicedAmount     prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,
		BillingRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paswerk_billing_runs_total",
			Help: "Billing runs by outcome.",
		}, []string{"status"}),
		BillingRunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "paswerk_billing_run_duration_seconds",
			Help:    "Wall time of a single billing run.",
			Buckets: prometheus.DefBuckets,
		}),
		InvoicedAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paswerk_invoiced_amount_euros_total",
			Help: "Sum of generated invoice totals, VAT included.",
		}),
	}
	reg.MustRegister(m.BillingRuns, m.BillingRunDuration, m.InvoicedAmount)
	return m
}

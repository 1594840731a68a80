package metrics

import (
	"net/http"
	"time"

	"solana-sweeper/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sweeper"

// Prometheus implements ports.SweepMetrics on a private registry.
type Prometheus struct {
	registry    *prometheus.Registry
	accounts    *prometheus.CounterVec
	plans       *prometheus.CounterVec
	rateLimited *prometheus.CounterVec
	runDuration prometheus.Histogram
}

// NewPrometheus registers the sweep collectors plus the Go and process collectors.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		accounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_total",
			Help:      "Accounts processed, by terminal state.",
		}, []string{"state"}),
		plans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_total",
			Help:      "Transfer plans executed, by kind and status.",
		}, []string{"kind", "status"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Ledger calls rejected with a rate limit, by operation.",
		}, []string{"op"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a sweep run.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
	p.registry.MustRegister(
		p.accounts,
		p.plans,
		p.rateLimited,
		p.runDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// AccountProcessed counts one account in its terminal state.
func (p *Prometheus) AccountProcessed(state domain.AccountState) {
	p.accounts.WithLabelValues(string(state)).Inc()
}

// PlanFinished counts one executed plan.
func (p *Prometheus) PlanFinished(kind domain.PlanKind, status domain.PlanStatus) {
	p.plans.WithLabelValues(string(kind), string(status)).Inc()
}

// RateLimited counts one rate-limited attempt of op.
func (p *Prometheus) RateLimited(op string) {
	p.rateLimited.WithLabelValues(op).Inc()
}

// RunFinished observes the duration of a run.
func (p *Prometheus) RunFinished(elapsed time.Duration) {
	p.runDuration.Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

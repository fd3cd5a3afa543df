package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	memePct      *prometheus.GaugeVec
	verdicts     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksense_provider_fetches_total",
				Help: "Total number of provider endpoint fetches",
			},
			[]string{"endpoint", "outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksense_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		memePct: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stocksense_meme_pct",
				Help: "Last computed meme score percentage for a ticker",
			},
			[]string{"ticker"},
		),
		verdicts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksense_verdicts_total",
				Help: "Verdicts produced, labeled by short-term verdict",
			},
			[]string{"short_term"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stocksense_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch records a provider endpoint fetch outcome.
func (r *Recorder) RecordFetch(endpoint string, success bool) {
	outcome := "ok"
	if !success {
		outcome = "failed"
	}
	r.fetchesTotal.WithLabelValues(endpoint, outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordMemePct records the last meme score for a ticker.
func (r *Recorder) RecordMemePct(ticker string, pct float64) {
	r.memePct.WithLabelValues(ticker).Set(pct)
}

// RecordVerdict records a produced verdict by short-term label.
func (r *Recorder) RecordVerdict(shortTerm string) {
	r.verdicts.WithLabelValues(shortTerm).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

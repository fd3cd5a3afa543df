package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	AnalyzeLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stocksense",
			Subsystem: "analyze",
			Name:      "latency_seconds",
			Help:      "Latency of analysis endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	AnalyzeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stocksense",
			Subsystem: "analyze",
			Name:      "errors_total",
			Help:      "Errors by analysis endpoint",
		},
		[]string{"endpoint"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(AnalyzeLatency, AnalyzeErrors)
	})
}

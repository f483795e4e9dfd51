package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dailyTaskRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daily_task_runs_total",
			Help: "Daily task job outcomes",
		},
		[]string{"task", "status"},
	)

	dailyTaskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "daily_task_duration_seconds",
			Help:    "Daily task job duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"task"},
	)

	leadDigestExhausted = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lead_digest_exhausted_notifications",
			Help: "Unsent lead notifications that reached the retry limit",
		},
	)
)

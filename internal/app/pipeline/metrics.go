package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ytdlbot_job_duration_seconds",
		Help:    "Duration of one download job in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	jobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytdlbot_jobs_total",
		Help: "Total number of download jobs",
	}, []string{"status"})

	callbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytdlbot_callbacks_total",
		Help: "Total number of inline button presses",
	}, []string{"action"})
)

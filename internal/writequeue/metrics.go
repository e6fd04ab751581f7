package writequeue

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recordsync",
			Subsystem: "writequeue",
			Name:      "submissions_total",
			Help:      "Operations accepted into the queue.",
		},
		[]string{"shard"},
	)

	queueFullTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recordsync",
			Subsystem: "writequeue",
			Name:      "queue_full_total",
			Help:      "Operations rejected because a shard was full.",
		},
		[]string{"shard"},
	)

	queueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "recordsync",
			Subsystem: "writequeue",
			Name:      "queue_depth",
			Help:      "Operations waiting in each shard.",
		},
		[]string{"shard"},
	)

	runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recordsync",
			Subsystem: "writequeue",
			Name:      "run_duration_seconds",
			Help:      "Wall time of one write attempt.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"shard"},
	)

	retriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recordsync",
			Subsystem: "writequeue",
			Name:      "retries_total",
			Help:      "Write attempts beyond the first.",
		},
		[]string{"shard"},
	)

	degradedWritesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "recordsync",
			Subsystem: "writequeue",
			Name:      "degraded_writes_total",
			Help:      "Preserving writes that proceeded without preservation because the fetch failed.",
		},
	)

	skippedWritesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "recordsync",
			Subsystem: "writequeue",
			Name:      "skipped_writes_total",
			Help:      "Writes skipped because the payload held only the timestamp.",
		},
	)
)

func labelFor(shard int) string { return strconv.Itoa(shard) }

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NodesSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topoflow_nodes_settled_total",
		Help: "Total number of node settlements, labelled by topology kind and final status.",
	}, []string{"kind", "status"})

	NodeRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "topoflow_node_retries_total",
		Help: "Total number of node retry attempts.",
	})

	ExecutionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topoflow_executions_started_total",
		Help: "Total number of execution calls, labelled by topology kind.",
	}, []string{"kind"})

	ExecutionsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topoflow_executions_finished_total",
		Help: "Total number of finished execution calls, labelled by kind and aggregate status.",
	}, []string{"kind", "status"})

	NodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "topoflow_node_duration_ms",
		Help:    "Wall-clock duration of a single node attempt in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 10000},
	})

	CheckpointsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "topoflow_checkpoints_saved_total",
		Help: "Total number of checkpoints persisted to the store.",
	})
)

package task

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MutationsTotal counts store mutations.
	// Labels: op, result (ok, validation, not_found)
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nirmaan",
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Total number of task store mutations by operation and result",
		},
		[]string{"op", "result"},
	)

	// PersistFailures counts snapshot writes that failed.
	PersistFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nirmaan",
			Subsystem: "store",
			Name:      "persist_failures_total",
			Help:      "Total number of failed snapshot writes by operation",
		},
		[]string{"op"},
	)

	// DependencyUpdates counts dependency entries rewritten by propagation.
	// Labels: kind (completion, rename, delete)
	DependencyUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nirmaan",
			Subsystem: "store",
			Name:      "dependency_updates_total",
			Help:      "Total number of dependency snapshot entries rewritten by propagation",
		},
		[]string{"kind"},
	)

	GroupsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nirmaan",
			Subsystem: "store",
			Name:      "groups",
			Help:      "Number of task groups currently held by the store",
		},
	)

	TasksGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nirmaan",
			Subsystem: "store",
			Name:      "tasks",
			Help:      "Number of tasks currently held by the store",
		},
	)
)

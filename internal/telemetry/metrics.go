package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ─── Tasks ───────────────────────────────────────────────────────────────────

	TaskTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workorder",
		Subsystem: "tasks",
		Name:      "transitions_total",
		Help:      "Lifecycle transitions persisted, labelled by target status.",
	}, []string{"to"})

	TasksCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workorder",
		Subsystem: "tasks",
		Name:      "created_total",
		Help:      "Tasks created, labelled by origin (user or system).",
	}, []string{"origin"})

	VersionConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "workorder",
		Subsystem: "tasks",
		Name:      "version_conflicts_total",
		Help:      "Writes rejected because the task changed after it was read.",
	})

	// ─── Side effects ────────────────────────────────────────────────────────────

	AuditFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "workorder",
		Subsystem: "audit",
		Name:      "failures_total",
		Help:      "Activity log entries that could not be written.",
	})

	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "workorder",
		Subsystem: "notify",
		Name:      "failures_total",
		Help:      "Notifications that could not be published.",
	})

	// ─── Reports & scheduler ─────────────────────────────────────────────────────

	ReportDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "workorder",
		Subsystem: "reports",
		Name:      "duration_seconds",
		Help:      "Report computation time in seconds.",
		Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"report"})

	DashboardCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workorder",
		Subsystem: "reports",
		Name:      "dashboard_cache_total",
		Help:      "Dashboard cache lookups, labelled by result (hit or miss).",
	}, []string{"result"})

	RuleTasksGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workorder",
		Subsystem: "scheduler",
		Name:      "tasks_generated_total",
		Help:      "Tasks generated from scheduled rules.",
	}, []string{"rule"})
)

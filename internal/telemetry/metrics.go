package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the game collectors exported on /metrics.
type Metrics struct {
	Completions     prometheus.Counter
	Points          prometheus.Histogram
	Combo           prometheus.Gauge
	Streak          prometheus.Gauge
	TotalStones     prometheus.Gauge
	Rebirths        prometheus.Counter
	Rollovers       prometheus.Counter
	Mutations       *prometheus.CounterVec
	PersistFailures prometheus.Counter
	DialogueLines   *prometheus.CounterVec
	SlackMessages   *prometheus.CounterVec
}

// NewRegistry returns a registry carrying the Go runtime and process
// collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Completions: f.NewCounter(prometheus.CounterOpts{
			Name: "smtd_task_completions_total",
			Help: "Total number of completed tasks",
		}),
		Points: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "smtd_reward_points",
			Help:    "Points paid per completion",
			Buckets: []float64{1000, 1500, 2000, 3000, 5000, 7500, 10000, 15000},
		}),
		Combo: f.NewGauge(prometheus.GaugeOpts{
			Name: "smtd_combo",
			Help: "Current combo",
		}),
		Streak: f.NewGauge(prometheus.GaugeOpts{
			Name: "smtd_streak_days",
			Help: "Current daily strike streak",
		}),
		TotalStones: f.NewGauge(prometheus.GaugeOpts{
			Name: "smtd_total_stones",
			Help: "Lifetime completions",
		}),
		Rebirths: f.NewCounter(prometheus.CounterOpts{
			Name: "smtd_rebirths_total",
			Help: "Total number of rebirths",
		}),
		Rollovers: f.NewCounter(prometheus.CounterOpts{
			Name: "smtd_day_rollovers_total",
			Help: "Total number of calendar day rollovers",
		}),
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "smtd_mutations_total",
			Help: "State changes by kind",
		}, []string{"kind"}),
		PersistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "smtd_persist_failures_total",
			Help: "Failed writes of the state document",
		}),
		DialogueLines: f.NewCounterVec(prometheus.CounterOpts{
			Name: "smtd_dialogue_lines_total",
			Help: "Navigator lines by source",
		}, []string{"source"}),
		SlackMessages: f.NewCounterVec(prometheus.CounterOpts{
			Name: "smtd_slack_messages_total",
			Help: "Slack notifications by slot and result",
		}, []string{"context", "result"}),
	}
}

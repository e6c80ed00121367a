package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scout_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	CycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scout_scan_cycle_duration_seconds",
			Help:    "Duration of each scan cycle in seconds.",
			Buckets: []float64{10, 30, 60, 180, 600},
		},
	)
	SourceStepDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "scout_source_step_duration_seconds",
			Help:       "Duration of each step while processing a source.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step"},
	)
	NewRecordsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scout_new_records_total",
			Help: "Total number of newly discovered job records.",
		},
	)
	PlansLearnedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scout_plans_learned_total",
			Help: "Total number of successfully learned extraction plans.",
		},
	)
	DispatchedMessagesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scout_dispatched_messages_total",
			Help: "Total number of push messages handed to the push service.",
		},
	)
)

func StartMetricsServer() {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(CycleDuration)
	prometheus.MustRegister(SourceStepDuration)
	prometheus.MustRegister(NewRecordsCounter)
	prometheus.MustRegister(PlansLearnedCounter)
	prometheus.MustRegister(DispatchedMessagesCounter)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(":8080", nil))
	}()
}

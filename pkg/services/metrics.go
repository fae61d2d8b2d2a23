package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ekaya-inc/study-sensei/pkg/models"
	"github.com/ekaya-inc/study-sensei/pkg/repositories"
)

// StudyMetrics holds the Prometheus collectors for the study store.
// A nil *StudyMetrics is valid and records nothing.
type StudyMetrics struct {
	mutations *prometheus.CounterVec
}

// NewStudyMetrics registers the study collectors on reg. Entity gauges are
// read from the store at scrape time.
func NewStudyMetrics(reg prometheus.Registerer, store repositories.StudyStore) *StudyMetrics {
	factory := promauto.With(reg)

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "study",
		Name:      "subjects",
		Help:      "Number of subjects currently stored",
	}, func() float64 {
		subjects, _ := store.Counts()
		return float64(subjects)
	})

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "study",
		Name:      "topics",
		Help:      "Number of topics currently stored",
	}, func() float64 {
		_, topics := store.Counts()
		return float64(topics)
	})

	for _, level := range models.ConfidenceLevels {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "study",
			Name:        "topics_by_confidence",
			Help:        "Number of topics at each confidence level",
			ConstLabels: prometheus.Labels{"confidence": string(level)},
		}, func() float64 {
			return float64(ComputeStats(store.ListSubjects()).Count(level))
		})
	}

	return &StudyMetrics{
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "study",
			Name:      "mutations_total",
			Help:      "Store mutations by operation and outcome",
		}, []string{"operation", "outcome"}),
	}
}

func (m *StudyMetrics) recordMutation(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.mutations.WithLabelValues(operation, outcome).Inc()
}

package simulator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/openfacility/facility-status/internal/domain"
)

const namespace = "facilitystatus"

var (
	incidentsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulator",
			Name:      "incidents_created_total",
			Help:      "Total incidents created by the simulator",
		},
		[]string{"type"},
	)

	lifecycleTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulator",
			Name:      "lifecycle_transitions_total",
			Help:      "Total incident lifecycle transitions",
		},
		[]string{"from", "to"},
	)

	eventsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulator",
			Name:      "events_emitted_total",
			Help:      "Total status events emitted",
		},
		[]string{"status"},
	)

	incidentsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulator",
			Name:      "incidents_pruned_total",
			Help:      "Total completed incidents removed by the history pruner",
		},
	)

	eventsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulator",
			Name:      "events_pruned_total",
			Help:      "Total events removed by the history pruner",
		},
	)

	resourceTypesInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "simulator",
			Name:      "resource_types_in_use",
			Help:      "Resource types currently involved in an incident",
		},
	)
)

func recordIncidentCreated(incidentType domain.IncidentType) {
	incidentsCreated.WithLabelValues(string(incidentType)).Inc()
}

func recordTransition(from, to domain.Resolution) {
	lifecycleTransitions.WithLabelValues(string(from), string(to)).Inc()
}

func recordEventEmitted(status domain.OperationalStatus) {
	eventsEmitted.WithLabelValues(string(status)).Inc()
}

func recordIncidentPruned() {
	incidentsPruned.Inc()
}

func recordEventPruned() {
	eventsPruned.Inc()
}

func recordTypesInUse(n int) {
	resourceTypesInUse.Set(float64(n))
}

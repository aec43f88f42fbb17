package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RemindersExpanded counts concrete reminder instances produced by
	// recurrence expansion.
	RemindersExpanded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petpal_reminders_expanded_total",
		Help: "Number of reminder instances created by recurrence expansion.",
	})

	// AIRequests counts assistant chat calls, labelled by outcome.
	AIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petpal_ai_requests_total",
		Help: "Number of AI assistant requests.",
	}, []string{"status"})

	// PlacesSearches counts nearby-vet lookups, labelled by outcome.
	PlacesSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petpal_places_searches_total",
		Help: "Number of nearby vet searches.",
	}, []string{"status"})

	// PhotosSaved counts stored photo memories.
	PhotosSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petpal_photos_saved_total",
		Help: "Number of photo memories captured.",
	})
)

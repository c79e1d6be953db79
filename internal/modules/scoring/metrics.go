package scoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	reasonCapacity   = "capacity"
	reasonAddress    = "address"
	reasonDetour     = "detour"
	reasonNoLocation = "no_location"
	reasonGeocode    = "geocode"
)

var (
	loadsScoredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loadrec_loads_scored_total",
			Help: "Total number of loads that received a score",
		},
	)

	loadsExcludedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loadrec_loads_excluded_total",
			Help: "Total number of loads dropped before scoring",
		},
		[]string{"reason"}, // capacity, address, detour
	)

	scoringAbortedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loadrec_scoring_aborted_total",
			Help: "Total number of scoring runs abandoned because the truck could not be located",
		},
		[]string{"reason"}, // no_location, geocode
	)
)

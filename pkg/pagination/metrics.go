package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result outcomes recorded in relay_pagination_results_total.
const (
	outcomeDelivered  = "delivered"
	outcomeSuppressed = "suppressed"
	outcomeCancelled  = "cancelled"
	outcomeFailed     = "failed"
	outcomeDropped    = "dropped"
	outcomeMalformed  = "malformed"
)

var (
	resultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_pagination_results_total",
		Help: "Fetch results handled by pagination controllers by outcome",
	}, []string{"controller", "outcome"})

	pagesKnown = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "relay_pagination_pages",
		Help: "Number of distinct pages currently known to a pagination controller",
	}, []string{"controller"})

	resetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_pagination_resets_total",
		Help: "Total number of pagination controller resets",
	}, []string{"controller"})
)

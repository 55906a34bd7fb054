package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OffersIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_offers_issued_total",
			Help: "Total number of offers issued to couriers",
		},
	)

	OffersRemovedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_offers_removed_total",
			Help: "Total number of offers removed from couriers",
		},
		[]string{"reason"},
	)
)

const (
	reasonAccepted = "accepted"
	reasonRejected = "rejected"
	reasonExpired  = "expired"
	reasonSession  = "session_inactive"
	reasonOrphaned = "orphaned"
)

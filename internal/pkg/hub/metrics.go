package hub

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectedCouriers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_connected_couriers",
			Help: "Number of couriers with an open push channel",
		},
	)

	PushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_pushes_total",
			Help: "Push events by outcome",
		},
		[]string{"type", "result"},
	)
)

const (
	resultQueued       = "queued"
	resultNotConnected = "not_connected"
	resultDropped      = "dropped"
)

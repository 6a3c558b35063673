package server

import "github.com/prometheus/client_golang/prometheus"

var (
	ConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "game_connections_active",
			Help: "Currently attached game connections",
		},
	)
	ActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_actions_total",
			Help: "Successfully applied game actions",
		},
		[]string{"type"},
	)
	ActionsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_actions_rejected_total",
			Help: "Game actions rejected by validation",
		},
		[]string{"type"},
	)
	BroadcastsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "game_broadcasts_total",
			Help: "Messages broadcast to all connections",
		},
	)
)

func init() {
	prometheus.MustRegister(ConnectionsActive)
	prometheus.MustRegister(ActionsTotal)
	prometheus.MustRegister(ActionsRejected)
	prometheus.MustRegister(BroadcastsTotal)
}

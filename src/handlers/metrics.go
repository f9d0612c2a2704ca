package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	OrdersAccepted  prometheus.Counter
	OrdersRejected  prometheus.Counter
	OrdersCancelled prometheus.Counter
	OrdersAmended   prometheus.Counter
	TradesExecuted  prometheus.Counter

	RestingOrders prometheus.Gauge
	BookVersion   prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OrdersAccepted: f.NewCounter(prometheus.CounterOpts{
			Name: "book_orders_accepted_total",
			Help: "Orders that passed validation and entered the book.",
		}),
		OrdersRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "book_operations_rejected_total",
			Help: "Operations rejected by validation or not-found checks.",
		}),
		OrdersCancelled: f.NewCounter(prometheus.CounterOpts{
			Name: "book_orders_cancelled_total",
			Help: "Resting orders removed by cancel requests.",
		}),
		OrdersAmended: f.NewCounter(prometheus.CounterOpts{
			Name: "book_orders_amended_total",
			Help: "Successful amend operations.",
		}),
		TradesExecuted: f.NewCounter(prometheus.CounterOpts{
			Name: "book_trades_executed_total",
			Help: "Individual matches emitted by the crossing loop.",
		}),
		RestingOrders: f.NewGauge(prometheus.GaugeOpts{
			Name: "book_resting_orders",
			Help: "Orders currently resting in the book.",
		}),
		BookVersion: f.NewGauge(prometheus.GaugeOpts{
			Name: "book_version",
			Help: "Book version counter, bumped on every successful mutation.",
		}),
	}
}

package handler

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var rpcCallsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "inventory_service",
		Subsystem: "rpc",
		Name:      "calls_total",
		Help:      "Total number of RPC calls by logical method and status code",
	},
	[]string{"method", "status"},
)

func RegisterMetrics() {
	prometheus.MustRegister(rpcCallsTotal)
}

func observeCall(method string, status int) {
	rpcCallsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

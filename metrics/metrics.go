package metrics

import (
	"errors"
	"net/http"

	"github.com/evdnx/rangebot/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rangebot_cycles_total",
			Help: "Completed passes over the instrument list.",
		},
	)

	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rangebot_signals_total",
			Help: "Non-null signals emitted (by symbol, strategy and side).",
		},
		[]string{"symbol", "strategy", "side"},
	)

	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rangebot_orders_total",
			Help: "Open intents submitted to the broker, by outcome.",
		},
		[]string{"symbol", "side", "result"},
	)

	PositionsClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rangebot_positions_closed_total",
			Help: "Profit-close intents submitted to the broker, by outcome.",
		},
		[]string{"symbol", "result"},
	)

	PositionsOpen = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rangebot_positions_open",
			Help: "Open positions per symbol as last read from the broker.",
		},
		[]string{"symbol"},
	)
)

func init() {
	prometheus.MustRegister(CyclesTotal, SignalsTotal, OrdersTotal, PositionsClosed, PositionsOpen)
}

// Result maps a broker outcome onto the "result" label.
func Result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// Serve exposes /metrics on addr in the background. A listener failure is
// logged; the trading loop keeps running without metrics.
func Serve(addr string, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics_server_failed", logger.String("addr", addr), logger.Err(err))
		}
	}()
	return srv
}

package httptransport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricStakesPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stakes_placed_total",
		Help: "Stakes accepted into open bets.",
	})
	metricBetsResolvedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bets_resolved_total",
		Help: "Bets that reached a resolved state.",
	})
	metricPointsPaidOutTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "points_paid_out_total",
		Help: "Points credited to winners at resolution.",
	})
	metricTransfersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transfers_total",
		Help: "Completed account to account transfers.",
	})

	metricRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			metricRequestDuration.WithLabelValues(
				r.Method, route, strconv.Itoa(ww.Status()),
			).Observe(time.Since(start).Seconds())
		})
	}
}

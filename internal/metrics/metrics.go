package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	GatewayRequests     *prometheus.CounterVec
	TokenRefreshes      *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "companion_http_requests_total",
			Help: "Local API requests by method, route, and status.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "companion_http_request_duration_seconds",
			Help:    "Local API request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		GatewayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "companion_gateway_requests_total",
			Help: "Outbound backend requests by method and status.",
		}, []string{"method", "status"}),
		TokenRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "companion_token_refreshes_total",
			Help: "Token refresh attempts by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.GatewayRequests,
		m.TokenRefreshes,
	)

	return m
}

var Module = fx.Provide(New)

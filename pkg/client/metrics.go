package client

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rmax-ai/partnermap/pkg/model"
)

var (
	// RequestsTotal counts API client calls by operation, source and outcome.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partnermap_client_requests_total",
			Help: "Total number of API client calls",
		},
		[]string{"op", "source", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(RequestsTotal)
}

func observe(op string, source Source, err error) {
	RequestsTotal.WithLabelValues(op, string(source), outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	case errors.Is(err, model.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}

package api

import (
	"encoding/json"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors updated by a client. A nil *Metrics
// records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	logins   *prometheus.CounterVec
}

// NewMetrics registers the client collectors with reg. Registering twice with
// the same registerer panics, so share one *Metrics between clients.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "revolut_client_requests_total",
			Help: "Total number of Revolut API requests by outcome",
		}, []string{"product", "method", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "revolut_client_request_duration_seconds",
			Help:    "Duration of Revolut API requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"product", "method"}),
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "revolut_client_logins_total",
			Help: "Total number of token exchanges by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) timer(product Product, method string) *prometheus.Timer {
	if m == nil {
		return nil
	}
	return prometheus.NewTimer(m.duration.WithLabelValues(product.String(), method))
}

func (m *Metrics) observeRequest(product Product, method, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(product.String(), method, outcome).Inc()
}

// ObserveLogin counts a token exchange.
func (m *Metrics) ObserveLogin(err error) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(loginOutcome(err)).Inc()
}

// requestOutcome labels a dispatched request. decodeFailed marks a 2xx body
// that did not match the expected type.
func requestOutcome(err error, decodeFailed bool) string {
	switch {
	case err == nil:
		return "success"
	case decodeFailed:
		return "decode_error"
	case IsCannotLogIn(err):
		return "login_error"
	case IsBackendError(err):
		return "backend_error"
	case IsClientError(err, SerializationError):
		return "decode_error"
	default:
		return "transport_error"
	}
}

// loginOutcome labels a token exchange. Login failures are CannotLogIn, so
// the label comes from the wrapped cause.
func loginOutcome(err error) string {
	if err == nil {
		return "success"
	}
	cause := err
	var clientErr *ClientError
	if errors.As(err, &clientErr) && clientErr.Err != nil {
		cause = clientErr.Err
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case IsBackendError(cause):
		return "backend_error"
	case IsClientError(cause, SerializationError), errors.As(cause, &syntaxErr), errors.As(cause, &typeErr):
		return "decode_error"
	default:
		return "transport_error"
	}
}

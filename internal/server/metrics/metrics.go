// Package metrics exposes Prometheus instruments for auth operations.
package metrics

import (
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/prometheus/client_golang/prometheus"
)

// OutcomeSuccess labels an operation that returned no error. Failures are
// labelled with their common.Kind name.
const OutcomeSuccess = "success"

// Operation names used as the "operation" label.
const (
	OpRegister     = "register"
	OpLogin        = "login"
	OpAuthenticate = "authenticate"
	OpGetUser      = "get_user"
	OpListUsers    = "list_users"
)

type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	rehashes   prometheus.Counter
}

// New creates the instruments and registers them with reg. A nil reg
// leaves them unregistered, which is what most tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_operations_total",
				Help: "Total number of auth operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "auth_operation_duration_seconds",
				Help:    "Auth operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		rehashes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_password_rehashes_total",
			Help: "Stored password hashes upgraded to the current parameters on login",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.operations, m.duration, m.rehashes)
	}
	return m
}

// Observe records one finished operation. It is safe on a nil *Metrics.
func (m *Metrics) Observe(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = common.KindOf(err).String()
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// Rehashed counts a password hash upgraded in place.
func (m *Metrics) Rehashed() {
	if m == nil {
		return
	}
	m.rehashes.Inc()
}

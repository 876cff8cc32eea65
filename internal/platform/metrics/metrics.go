package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "money_tracker"

// OutcomeOK labels a successful ledger operation.
const OutcomeOK = "ok"

// Metrics holds the application collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	LedgerOperations    *prometheus.CounterVec
	LedgerRetries       *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LedgerOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_operations_total",
			Help:      "Ledger mutations by operation and outcome kind.",
		}, []string{"operation", "outcome"}),
		LedgerRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_tx_retries_total",
			Help:      "Ledger units of work retried after a transaction failure.",
		}, []string{"operation"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// ObserveLedgerOperation counts one finished ledger operation.
func (m *Metrics) ObserveLedgerOperation(operation string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = apperrors.Kind(err)
	}
	m.LedgerOperations.WithLabelValues(operation, outcome).Inc()
}

// IncLedgerRetry counts one retry of a ledger unit of work.
func (m *Metrics) IncLedgerRetry(operation string) {
	if m == nil {
		return
	}
	m.LedgerRetries.WithLabelValues(operation).Inc()
}

// ObserveHTTPRequest records the latency of one request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler exposes the collectors gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Business metrics
	RunningSessionsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "running_sessions_saved_total",
			Help: "Running session save attempts by outcome",
		},
		[]string{"service", "status"},
	)

	RunningSessionCoordinates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "running_session_coordinates",
			Help:    "Number of coordinates per saved running session",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		},
		[]string{"service"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Identity provider logins by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	// External dependencies
	IdentityProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_provider_requests_total",
			Help: "Requests sent to an identity provider",
		},
		[]string{"provider", "status"},
	)

	IdentityProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "identity_provider_request_duration_seconds",
			Help:    "Identity provider request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	WebSocketConnectionsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
		[]string{"service"},
	)

	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"service", "operation", "status"},
	)

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"service", "exchange", "status"},
	)
)

func outcome(err error) string {
	if err != nil {
		return statusError
	}
	return statusSuccess
}

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, status).Observe(duration.Seconds())
}

// RecordSessionSave records the outcome of a running session save.
// coordinates is observed only for successful saves.
func RecordSessionSave(service string, success bool, coordinates int) {
	if !success {
		RunningSessionsSaved.WithLabelValues(service, statusError).Inc()
		return
	}
	RunningSessionsSaved.WithLabelValues(service, statusSuccess).Inc()
	RunningSessionCoordinates.WithLabelValues(service).Observe(float64(coordinates))
}

// RecordLogin records a login attempt, outcome is "created", "linked", "existing" or "failed".
func RecordLogin(provider, outcome string) {
	LoginsTotal.WithLabelValues(provider, outcome).Inc()
}

// RecordIdentityProviderRequest records a call to an external identity provider.
func RecordIdentityProviderRequest(provider string, statusCode int, duration time.Duration) {
	status := "transport_error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	IdentityProviderRequests.WithLabelValues(provider, status).Inc()
	IdentityProviderDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// SetCircuitBreakerState publishes the numeric state of a named breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordDatabaseQuery records database query metrics
func RecordDatabaseQuery(service, operation string, err error, duration time.Duration) {
	DatabaseQueriesTotal.WithLabelValues(service, operation, outcome(err)).Inc()
	DatabaseQueryDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordRabbitMQPublish records RabbitMQ publish metrics
func RecordRabbitMQPublish(service, exchange string, err error) {
	RabbitMQMessagesPublished.WithLabelValues(service, exchange, outcome(err)).Inc()
}

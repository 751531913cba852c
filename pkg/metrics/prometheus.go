// Package metrics provides Prometheus metrics for the duoquiz pairing service.
package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Pairing channel lifecycle
	stateTransitions *prometheus.CounterVec
	connectAttempts  *prometheus.CounterVec
	connectFailures  *prometheus.CounterVec
	retriesScheduled prometheus.Counter
	channelErrors    prometheus.Counter
	channelsOpen     prometheus.Gauge

	// Protocol traffic
	messagesSent      *prometheus.CounterVec
	messagesDropped   *prometheus.CounterVec
	messagesReceived  *prometheus.CounterVec
	messagesDiscarded prometheus.Counter
	dispatchLatency   prometheus.Histogram

	// Session codec and scoring
	decodeErrors     *prometheus.CounterVec
	pairComputations prometheus.Counter
	pairDuplicates   prometheus.Counter
	duoVariants      *prometheus.CounterVec
	sessionsActive   prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Queues
	queueSize          *prometheus.GaugeVec
	queueCapacity      *prometheus.GaugeVec
	queueEnqueue       *prometheus.CounterVec
	queueDequeue       *prometheus.CounterVec
	queueEnqueueErrors *prometheus.CounterVec

	// Errors and system
	errorsByComponent    *prometheus.CounterVec
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "duoquiz",
		subsystem:        "pairing",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string { return m.metricPrefix + n }

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	})
}

func (m *Manager) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.stateTransitions = m.counterVec("state_transitions_total", "Pairing channel state transitions", "from", "to")
	m.connectAttempts = m.counterVec("connect_attempts_total", "Transport open attempts by role", "role")
	m.connectFailures = m.counterVec("connect_failures_total", "Failed transport open attempts by role", "role")
	m.retriesScheduled = m.counter("retries_scheduled_total", "Automatic reconnect attempts scheduled")
	m.channelErrors = m.counter("channel_errors_total", "Channels that gave up and entered the error state")
	m.channelsOpen = m.gauge("channels_connected", "Channels currently connected")

	m.messagesSent = m.counterVec("messages_sent_total", "Protocol messages written to a link", "kind")
	m.messagesDropped = m.counterVec("messages_dropped_total", "Protocol messages not sent", "kind", "reason")
	m.messagesReceived = m.counterVec("messages_received_total", "Valid protocol messages delivered to the handler", "kind")
	m.messagesDiscarded = m.counter("messages_discarded_total", "Inbound frames that failed validation")
	m.dispatchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dispatch_latency_milliseconds"),
		Help:        "Time spent in the inbound message handler",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	})

	m.decodeErrors = m.counterVec("decode_errors_total", "Rejected session tokens by reason", "reason")
	m.pairComputations = m.counter("pair_computations_total", "Pair results computed")
	m.pairDuplicates = m.counter("pair_duplicates_total", "Pair computations skipped because one already ran")
	m.duoVariants = m.counterVec("duo_variants_total", "Computed pair results by duo variant", "variant")
	m.sessionsActive = m.gauge("sessions_active", "Sessions currently running")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.queueSize = m.gaugeVec("queue_size", "Items waiting in a queue", "queue")
	m.queueCapacity = m.gaugeVec("queue_capacity", "Queue capacity", "queue")
	m.queueEnqueue = m.counterVec("queue_enqueue_total", "Items accepted by a queue", "queue")
	m.queueDequeue = m.counterVec("queue_dequeue_total", "Items taken from a queue", "queue")
	m.queueEnqueueErrors = m.counterVec("queue_enqueue_errors_total", "Items rejected by a queue", "queue", "reason")

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// Enabled reports whether the manager records anything.
func (m *Manager) Enabled() bool { return m.enabled }

// RecordStateTransition counts a channel state change.
func (m *Manager) RecordStateTransition(from, to string) {
	if !m.enabled {
		return
	}
	m.stateTransitions.WithLabelValues(from, to).Inc()
	switch {
	case to == "connected" && from != "connected":
		m.channelsOpen.Inc()
	case from == "connected" && to != "connected":
		m.channelsOpen.Dec()
	}
	if to == "error" {
		m.channelErrors.Inc()
	}
}

// RecordConnectAttempt counts a transport open and whether it failed.
func (m *Manager) RecordConnectAttempt(role string, failed bool) {
	if !m.enabled {
		return
	}
	m.connectAttempts.WithLabelValues(role).Inc()
	if failed {
		m.connectFailures.WithLabelValues(role).Inc()
	}
}

// RecordRetryScheduled counts an automatic reconnect.
func (m *Manager) RecordRetryScheduled() {
	if m.enabled {
		m.retriesScheduled.Inc()
	}
}

// RecordMessageSent counts an outbound message.
func (m *Manager) RecordMessageSent(kind string) {
	if m.enabled {
		m.messagesSent.WithLabelValues(kind).Inc()
	}
}

// RecordMessageDropped counts an outbound message that never left.
func (m *Manager) RecordMessageDropped(kind, reason string) {
	if m.enabled {
		m.messagesDropped.WithLabelValues(kind, reason).Inc()
	}
}

// RecordMessageReceived counts a valid inbound message and its handling time.
func (m *Manager) RecordMessageReceived(kind string, handling time.Duration) {
	if !m.enabled {
		return
	}
	m.messagesReceived.WithLabelValues(kind).Inc()
	m.dispatchLatency.Observe(float64(handling.Microseconds()) / 1000)
}

// RecordMessageDiscarded counts an inbound frame that failed validation.
func (m *Manager) RecordMessageDiscarded() {
	if m.enabled {
		m.messagesDiscarded.Inc()
	}
}

// RecordDecodeError counts a rejected token.
func (m *Manager) RecordDecodeError(reason string) {
	if m.enabled {
		m.decodeErrors.WithLabelValues(reason).Inc()
	}
}

// RecordPairComputed counts a pair result by duo variant.
func (m *Manager) RecordPairComputed(variant string) {
	if !m.enabled {
		return
	}
	m.pairComputations.Inc()
	m.duoVariants.WithLabelValues(variant).Inc()
}

// RecordPairDuplicate counts a skipped recomputation.
func (m *Manager) RecordPairDuplicate() {
	if m.enabled {
		m.pairDuplicates.Inc()
	}
}

// AddActiveSessions moves the active session gauge by delta.
func (m *Manager) AddActiveSessions(delta int) {
	if m.enabled {
		m.sessionsActive.Add(float64(delta))
	}
}

// RecordHTTPRequest counts one request and its duration in milliseconds.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateQueue records a queue's size and capacity.
func (m *Manager) UpdateQueue(queue string, size, capacity int) {
	if !m.enabled {
		return
	}
	m.queueSize.WithLabelValues(queue).Set(float64(size))
	m.queueCapacity.WithLabelValues(queue).Set(float64(capacity))
}

// RecordQueueEnqueue counts an accepted item.
func (m *Manager) RecordQueueEnqueue(queue string) {
	if m.enabled {
		m.queueEnqueue.WithLabelValues(queue).Inc()
	}
}

// RecordQueueDequeue counts a consumed item.
func (m *Manager) RecordQueueDequeue(queue string) {
	if m.enabled {
		m.queueDequeue.WithLabelValues(queue).Inc()
	}
}

// RecordQueueEnqueueError counts a rejected item.
func (m *Manager) RecordQueueEnqueueError(queue, reason string) {
	if !m.enabled {
		return
	}
	m.queueEnqueueErrors.WithLabelValues(queue, reason).Inc()
	m.errorsByComponent.WithLabelValues("queue", reason).Inc()
}

// RecordErrorByComponent counts an error attributed to a component.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	if m.enabled {
		m.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// UpdateSystemMetrics samples memory and goroutine counts.
func (m *Manager) UpdateSystemMetrics() {
	if !m.enabled {
		return
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.systemMemoryUsage.Set(float64(ms.Alloc))
	m.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
}

// StartSystemCollector samples system metrics every refresh interval until
// ctx is done.
func (m *Manager) StartSystemCollector(ctx context.Context) {
	ticker := time.NewTicker(m.refreshInterval)
	go func() {
		defer ticker.Stop()
		m.UpdateSystemMetrics()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.UpdateSystemMetrics()
			}
		}
	}()
}

// Global returns the process-wide manager registered on GetRegistry.
func Global() *Manager { return globalManager }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level shorthands for the global manager.

// RecordStateTransition counts a channel state change.
func RecordStateTransition(from, to string) { globalManager.RecordStateTransition(from, to) }

// RecordConnectAttempt counts a transport open attempt.
func RecordConnectAttempt(role string, failed bool) {
	globalManager.RecordConnectAttempt(role, failed)
}

// RecordRetryScheduled counts an automatic reconnect.
func RecordRetryScheduled() { globalManager.RecordRetryScheduled() }

// RecordMessageSent counts an outbound message.
func RecordMessageSent(kind string) { globalManager.RecordMessageSent(kind) }

// RecordMessageDropped counts an outbound message that never left.
func RecordMessageDropped(kind, reason string) { globalManager.RecordMessageDropped(kind, reason) }

// RecordMessageReceived counts a valid inbound message.
func RecordMessageReceived(kind string, handling time.Duration) {
	globalManager.RecordMessageReceived(kind, handling)
}

// RecordMessageDiscarded counts an invalid inbound frame.
func RecordMessageDiscarded() { globalManager.RecordMessageDiscarded() }

// RecordDecodeError counts a rejected token.
func RecordDecodeError(reason string) { globalManager.RecordDecodeError(reason) }

// RecordPairComputed counts a pair result.
func RecordPairComputed(variant string) { globalManager.RecordPairComputed(variant) }

// RecordPairDuplicate counts a skipped recomputation.
func RecordPairDuplicate() { globalManager.RecordPairDuplicate() }

// AddActiveSessions moves the active session gauge.
func AddActiveSessions(delta int) { globalManager.AddActiveSessions(delta) }

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// UpdateQueue records a queue's size and capacity.
func UpdateQueue(queue string, size, capacity int) { globalManager.UpdateQueue(queue, size, capacity) }

// RecordQueueEnqueue counts an accepted item.
func RecordQueueEnqueue(queue string) { globalManager.RecordQueueEnqueue(queue) }

// RecordQueueDequeue counts a consumed item.
func RecordQueueDequeue(queue string) { globalManager.RecordQueueDequeue(queue) }

// RecordQueueEnqueueError counts a rejected item.
func RecordQueueEnqueueError(queue, reason string) {
	globalManager.RecordQueueEnqueueError(queue, reason)
}

// RecordErrorByComponent counts an error attributed to a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

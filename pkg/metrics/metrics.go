// Package metrics provides Prometheus metrics for the arena service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector registered for the service.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	// Duel engine metrics.
	duelsServed        *prometheus.CounterVec // by strategy
	duelFallbacks      prometheus.Counter
	duelExhaustions    prometheus.Counter
	selectionLatency   prometheus.Histogram
	votesRecorded      prometheus.Counter
	majorityMatches    prometheus.Counter
	configRejections   prometheus.Counter
	verdictsJudged     *prometheus.CounterVec // by color
	starsRecorded      prometheus.Counter

	// Operational health.
	activeElements prometheus.Gauge
	liveSessions   prometheus.Gauge
	journalQueue   prometheus.Gauge
	journalErrors  prometheus.Counter

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager()
}

// NewManager creates a metrics manager backed by its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "arena",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	factory := promauto.With(m.registry)

	m.duelsServed = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "duels_served_total",
		Help:      "Duel pairs served, labeled by winning strategy.",
	}, []string{"strategy"})
	m.duelFallbacks = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "duel_fallbacks_total",
		Help:      "Times the orchestrator fell back past the chosen strategy.",
	})
	m.duelExhaustions = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "duel_exhaustions_total",
		Help:      "Times a session was told no duel remains.",
	})
	m.selectionLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "duel_selection_duration_ms",
		Help:      "Pair selection latency in milliseconds.",
		Buckets:   prometheus.DefBuckets,
	})
	m.votesRecorded = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "votes_recorded_total",
		Help:      "Votes applied to element ratings.",
	})
	m.majorityMatches = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "majority_matches_total",
		Help:      "Votes where the voter agreed with the prior crowd ranking.",
	})
	m.configRejections = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "config_rejections_total",
		Help:      "Algorithm config writes rejected by validation.",
	})
	m.verdictsJudged = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "verdicts_judged_total",
		Help:      "Flag-or-not verdicts, labeled by color.",
	}, []string{"color"})
	m.starsRecorded = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "pair_stars_total",
		Help:      "Community stars recorded for duel pairs.",
	})

	m.activeElements = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "active_elements",
		Help:      "Number of active elements in the pool.",
	})
	m.liveSessions = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "live_sessions",
		Help:      "Number of live voter sessions.",
	})
	m.journalQueue = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "vote_journal_queue_size",
		Help:      "Vote records waiting for the journal workers.",
	})
	m.journalErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "vote_journal_errors_total",
		Help:      "Vote records the journal workers failed to persist.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method, and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method"})

	return m
}

// GetRegistry exposes the registry for the /healthz scrape handler.
func GetRegistry() *prometheus.Registry {
	return globalManager.registry
}

// RecordDuelServed counts a served pair for the given strategy.
func RecordDuelServed(strategy string) {
	globalManager.duelsServed.WithLabelValues(strategy).Inc()
}

// RecordDuelFallback counts a fallback past the chosen strategy.
func RecordDuelFallback() {
	globalManager.duelFallbacks.Inc()
}

// RecordDuelExhaustion counts an exhausted-session response.
func RecordDuelExhaustion() {
	globalManager.duelExhaustions.Inc()
}

// RecordSelectionLatency observes pair selection latency.
func RecordSelectionLatency(ms float64) {
	globalManager.selectionLatency.Observe(ms)
}

// RecordVote counts an applied vote; matchedMajority marks crowd agreement.
func RecordVote(matchedMajority bool) {
	globalManager.votesRecorded.Inc()
	if matchedMajority {
		globalManager.majorityMatches.Inc()
	}
}

// RecordConfigRejection counts a rejected algorithm config write.
func RecordConfigRejection() {
	globalManager.configRejections.Inc()
}

// RecordVerdict counts a flag-or-not judgment by color.
func RecordVerdict(color string) {
	globalManager.verdictsJudged.WithLabelValues(color).Inc()
}

// RecordPairStar counts a community star.
func RecordPairStar() {
	globalManager.starsRecorded.Inc()
}

// UpdateActiveElements sets the active element pool gauge.
func UpdateActiveElements(n int) {
	globalManager.activeElements.Set(float64(n))
}

// UpdateLiveSessions sets the live session gauge.
func UpdateLiveSessions(n int) {
	globalManager.liveSessions.Set(float64(n))
}

// UpdateJournalQueueSize sets the vote journal backlog gauge.
func UpdateJournalQueueSize(n int) {
	globalManager.journalQueue.Set(float64(n))
}

// RecordJournalError counts a failed journal write.
func RecordJournalError() {
	globalManager.journalErrors.Inc()
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request's latency.
func RecordHTTPRequestDuration(endpoint, method string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(ms)
}

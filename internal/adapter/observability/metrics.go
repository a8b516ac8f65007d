package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI requests by provider and operation",
		},
		[]string{"provider", "operation"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider", "operation"},
	)

	MatchesEnqueuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "matches_enqueued_total",
			Help: "Total number of match tasks enqueued",
		},
	)
	MatchesProcessing = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "matches_processing",
			Help: "Number of match tasks currently processing",
		},
	)
	MatchesCompletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "matches_completed_total",
			Help: "Total number of match tasks completed",
		},
	)
	MatchesFailedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "matches_failed_total",
			Help: "Total number of match tasks failed",
		},
	)

	// Debate outcome distributions.
	DebateRoundsHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "debate_rounds_total",
			Help:    "Distribution of debate rounds per completed match",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
	)
	FinalScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_final_score",
			Help:    "Distribution of final verdict scores ([0,100])",
			Buckets: []float64{0, 10, 20, 30, 40, 55, 70, 85, 100},
		},
	)
	VerdictConfidenceHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_verdict_confidence",
			Help:    "Distribution of verdict confidence ([0,1])",
			Buckets: []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)
	TokensUsedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ai_tokens_used_total",
			Help: "Total estimated tokens consumed by pipeline runs",
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(AIRequestsTotal)
	prometheus.MustRegister(AIRequestDuration)
	prometheus.MustRegister(MatchesEnqueuedTotal)
	prometheus.MustRegister(MatchesProcessing)
	prometheus.MustRegister(MatchesCompletedTotal)
	prometheus.MustRegister(MatchesFailedTotal)
	prometheus.MustRegister(DebateRoundsHistogram)
	prometheus.MustRegister(FinalScoreHistogram)
	prometheus.MustRegister(VerdictConfidenceHistogram)
	prometheus.MustRegister(TokensUsedTotal)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

func EnqueueMatch() {
	MatchesEnqueuedTotal.Inc()
}

func StartProcessingMatch() {
	MatchesProcessing.Inc()
}

func CompleteMatch() {
	MatchesProcessing.Dec()
	MatchesCompletedTotal.Inc()
}

func FailMatch() {
	MatchesProcessing.Dec()
	MatchesFailedTotal.Inc()
}

// ObserveMatchResult records the outcome distributions of a completed
// pipeline run.
func ObserveMatchResult(rounds int, finalScore, confidence float64, tokensUsed int) {
	if rounds > 0 {
		DebateRoundsHistogram.Observe(float64(rounds))
	}
	if finalScore >= 0 && finalScore <= 100 {
		FinalScoreHistogram.Observe(finalScore)
	}
	if confidence >= 0 && confidence <= 1 {
		VerdictConfidenceHistogram.Observe(confidence)
	}
	if tokensUsed > 0 {
		TokensUsedTotal.Add(float64(tokensUsed))
	}
}

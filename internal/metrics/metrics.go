// Package metrics exposes Prometheus collectors for HTTP traffic, document
// extraction and the upstream AI providers.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 30},
		},
		[]string{"route", "method"},
	)

	ExtractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractions_total",
			Help: "Total number of document extractions by media type, tier and result",
		},
		[]string{"media_type", "tier", "result"},
	)
	ExtractionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "extraction_duration_seconds",
			Help:    "Document extraction duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"media_type"},
	)
	PDFTierAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdf_tier_attempts_total",
			Help: "Total number of PDF extraction tier attempts by outcome",
		},
		[]string{"tier", "outcome"},
	)

	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI requests by provider, operation and result",
		},
		[]string{"provider", "operation", "result"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"provider", "operation"},
	)
	DemoFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "demo_fallbacks_total",
			Help: "Total number of responses served from canned demo content",
		},
		[]string{"service"},
	)
)

var registerOnce sync.Once

// InitMetrics registers every collector with the default registry. Safe to call more than once.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(ExtractionsTotal)
		prometheus.MustRegister(ExtractionDuration)
		prometheus.MustRegister(PDFTierAttemptsTotal)
		prometheus.MustRegister(AIRequestsTotal)
		prometheus.MustRegister(AIRequestDuration)
		prometheus.MustRegister(DemoFallbacksTotal)
	})
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(dur)
	})
}

// ObserveExtraction records one orchestrator call. tier is empty when extraction failed.
func ObserveExtraction(mediaType, tier, result string, d time.Duration) {
	if tier == "" {
		tier = "none"
	}
	ExtractionsTotal.WithLabelValues(mediaType, tier, result).Inc()
	ExtractionDuration.WithLabelValues(mediaType).Observe(d.Seconds())
}

// ObservePDFTier records one PDF strategy attempt.
func ObservePDFTier(tier, outcome string) {
	PDFTierAttemptsTotal.WithLabelValues(tier, outcome).Inc()
}

// ObserveAIRequest records one upstream provider call.
func ObserveAIRequest(provider, operation string, err error, d time.Duration) {
	result := "success"
	if err != nil {
		result = "error"
	}
	AIRequestsTotal.WithLabelValues(provider, operation, result).Inc()
	AIRequestDuration.WithLabelValues(provider, operation).Observe(d.Seconds())
}

// ObserveDemoFallback records a response served from demo content.
func ObserveDemoFallback(service string) {
	DemoFallbacksTotal.WithLabelValues(service).Inc()
}

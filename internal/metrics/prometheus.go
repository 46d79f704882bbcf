package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AssessmentDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "complyforge_assessment_duration_seconds",
			Help:    "End-to-end assessment processing duration in seconds",
			Buckets: []float64{10, 30, 60, 120, 180, 300, 600},
		},
		[]string{"classification"},
	)

	AssessmentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complyforge_assessment_total",
			Help: "Total number of assessments processed",
		},
		[]string{"status"},
	)

	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "complyforge_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120},
		},
		[]string{"stage"},
	)

	ComplianceScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "complyforge_compliance_score",
			Help:    "Compliance scores of completed assessments",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	ClassificationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complyforge_classification_total",
			Help: "Assessments by EU AI Act risk tier",
		},
		[]string{"tier"},
	)

	GapsFound = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "complyforge_gaps_found",
			Help:    "Number of gaps identified per assessment",
			Buckets: []float64{0, 5, 10, 20, 40, 80},
		},
		[]string{"severity"},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complyforge_llm_tokens_used",
			Help: "Total reasoning tokens used",
		},
		[]string{"model", "type"},
	)

	LLMRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "complyforge_llm_retries_total",
			Help: "Total reasoning call retries",
		},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complyforge_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complyforge_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)
)

func Init() {
	prometheus.MustRegister(AssessmentDuration)
	prometheus.MustRegister(AssessmentTotal)
	prometheus.MustRegister(StageDuration)
	prometheus.MustRegister(ComplianceScore)
	prometheus.MustRegister(ClassificationTotal)
	prometheus.MustRegister(GapsFound)
	prometheus.MustRegister(LLMTokensUsed)
	prometheus.MustRegister(LLMRetries)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

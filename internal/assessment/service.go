package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/complyforge/backend/internal/cache/redis"
	"github.com/complyforge/backend/internal/metrics"
	"github.com/complyforge/backend/internal/questionnaire"
	"github.com/complyforge/backend/internal/storage/models"
	"github.com/complyforge/backend/internal/storage/sqlite"
	"github.com/complyforge/backend/pkg/logger"
)

const (
	resultCacheTTL = time.Hour
	statusCacheTTL = 30 * time.Second

	// Upper bound for one full run. A run that exceeds this is failed, not
	// left processing forever.
	runTimeout = 15 * time.Minute
)

// Service owns the assessment lifecycle: it accepts questionnaires, runs
// the pipeline in the background and persists the outcome. The cache is
// optional; a nil cache degrades to database reads.
type Service struct {
	engine *Engine
	store  *sqlite.Client
	cache  *redis.Client
}

func NewService(engine *Engine, store *sqlite.Client, cache *redis.Client) *Service {
	return &Service{engine: engine, store: store, cache: cache}
}

// Start validates the questionnaire, persists a pending record and kicks
// off the pipeline in a background goroutine. Returns the assessment id
// immediately.
func (s *Service) Start(ctx context.Context, q *questionnaire.Response) (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}

	questionnaireJSON, err := json.Marshal(q)
	if err != nil {
		return "", fmt.Errorf("failed to marshal questionnaire: %w", err)
	}

	id := uuid.New().String()
	record := &models.Assessment{
		ID:               id,
		CreatedAt:        time.Now().UTC(),
		OrganizationName: q.OrganizationLabel(),
		Questionnaire:    string(questionnaireJSON),
	}

	if err := s.store.CreateAssessment(record); err != nil {
		return "", err
	}

	go s.process(id, q)

	return id, nil
}

// process runs the pipeline for one accepted assessment. Detached from the
// request context; the run owns its own deadline.
func (s *Service) process(id string, q *questionnaire.Response) {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	s.setStatus(ctx, id, models.StatusProcessing, "")

	started := time.Now()
	result, err := s.engine.Run(ctx, q)
	if err != nil {
		logger.Error("Assessment run failed",
			zap.String("assessment_id", id),
			zap.Error(err),
		)
		metrics.AssessmentTotal.WithLabelValues(models.StatusFailed).Inc()
		s.setStatus(ctx, id, models.StatusFailed, err.Error())
		return
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		logger.Error("Failed to serialize result", zap.String("assessment_id", id), zap.Error(err))
		metrics.AssessmentTotal.WithLabelValues(models.StatusFailed).Inc()
		s.setStatus(ctx, id, models.StatusFailed, "failed to serialize result")
		return
	}

	if err := s.store.SaveResult(
		id,
		result.EUAIAct.Classification,
		result.GapAnalysis.ComplianceScore,
		result.ProcessingTimeSeconds,
		string(resultJSON),
	); err != nil {
		logger.Error("Failed to persist result", zap.String("assessment_id", id), zap.Error(err))
		return
	}

	if s.cache != nil {
		if err := s.cache.SetResult(ctx, id, result, resultCacheTTL); err != nil {
			logger.Warn("Failed to cache result", zap.String("assessment_id", id), zap.Error(err))
		}
		s.cache.SetStatus(ctx, id, models.StatusCompleted, statusCacheTTL)
	}

	metrics.AssessmentTotal.WithLabelValues(models.StatusCompleted).Inc()
	metrics.AssessmentDuration.WithLabelValues(result.EUAIAct.Classification).Observe(time.Since(started).Seconds())
	metrics.ClassificationTotal.WithLabelValues(result.EUAIAct.Classification).Inc()
	metrics.ComplianceScore.Observe(float64(result.GapAnalysis.ComplianceScore))
	observeGaps(&result.GapAnalysis)
}

func observeGaps(g *GapAnalysis) {
	b := g.ScoreBreakdown
	metrics.GapsFound.WithLabelValues(SeverityCritical).Observe(float64(b.CriticalGaps))
	metrics.GapsFound.WithLabelValues(SeverityHigh).Observe(float64(b.HighGaps))
	metrics.GapsFound.WithLabelValues(SeverityMedium).Observe(float64(b.MediumGaps))
	metrics.GapsFound.WithLabelValues(SeverityLow).Observe(float64(b.LowGaps))
}

func (s *Service) setStatus(ctx context.Context, id, status, errorMessage string) {
	if err := s.store.UpdateStatus(id, status, errorMessage); err != nil {
		logger.Error("Failed to update assessment status",
			zap.String("assessment_id", id),
			zap.String("status", status),
			zap.Error(err),
		)
	}
	if s.cache != nil {
		s.cache.SetStatus(ctx, id, status, statusCacheTTL)
	}
}

// Status returns the lifecycle state and error message for one assessment.
// Cache first, database on a miss. Returns empty status if unknown.
func (s *Service) Status(ctx context.Context, id string) (string, string, error) {
	if s.cache != nil {
		if status, ok, err := s.cache.GetStatus(ctx, id); err == nil && ok {
			metrics.CacheHits.WithLabelValues("status").Inc()
			return status, "", nil
		}
		metrics.CacheMisses.WithLabelValues("status").Inc()
	}

	record, err := s.store.GetAssessment(id)
	if err != nil {
		return "", "", err
	}
	if record == nil {
		return "", "", nil
	}

	if s.cache != nil {
		s.cache.SetStatus(ctx, id, record.Status, statusCacheTTL)
	}

	return record.Status, record.ErrorMessage, nil
}

// Result returns the full result of a completed assessment. The second
// return reports whether the assessment exists; ErrNotCompleted marks the
// precondition failure for pending, processing and failed runs.
func (s *Service) Result(ctx context.Context, id string) (*Result, bool, error) {
	if s.cache != nil {
		var cached Result
		if ok, err := s.cache.GetResult(ctx, id, &cached); err == nil && ok {
			metrics.CacheHits.WithLabelValues("result").Inc()
			return &cached, true, nil
		}
		metrics.CacheMisses.WithLabelValues("result").Inc()
	}

	record, err := s.store.GetAssessment(id)
	if err != nil {
		return nil, false, err
	}
	if record == nil {
		return nil, false, nil
	}
	if record.Status != models.StatusCompleted {
		return nil, true, &NotCompletedError{Status: record.Status}
	}

	var result Result
	if err := json.Unmarshal([]byte(record.FullResult), &result); err != nil {
		return nil, true, fmt.Errorf("failed to decode stored result: %w", err)
	}

	if s.cache != nil {
		s.cache.SetResult(ctx, id, &result, resultCacheTTL)
	}

	return &result, true, nil
}

// Get returns the raw persisted record.
func (s *Service) Get(id string) (*models.Assessment, error) {
	return s.store.GetAssessment(id)
}

// List returns recent assessment summaries.
func (s *Service) List(limit int) ([]models.AssessmentSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.ListAssessments(limit)
}

// NotCompletedError reports a result request against a run that has not
// reached the completed state.
type NotCompletedError struct {
	Status string
}

func (e *NotCompletedError) Error() string {
	return fmt.Sprintf("assessment is %s, result not available", e.Status)
}

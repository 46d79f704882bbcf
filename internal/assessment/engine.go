package assessment

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/complyforge/backend/internal/corpus"
	"github.com/complyforge/backend/internal/llm"
	"github.com/complyforge/backend/internal/mapping"
	"github.com/complyforge/backend/internal/metrics"
	"github.com/complyforge/backend/internal/questionnaire"
	"github.com/complyforge/backend/pkg/logger"
)

// Invoker makes one structured-output reasoning call.
type Invoker interface {
	Invoke(ctx context.Context, req llm.Request) (json.RawMessage, error)
}

// Engine runs the four-stage assessment pipeline. It holds no per-run
// state; one engine serves concurrent runs.
type Engine struct {
	invoker Invoker
	corpus  *corpus.Library
}

func NewEngine(invoker Invoker, library *corpus.Library) *Engine {
	return &Engine{invoker: invoker, corpus: library}
}

// Run executes the pipeline against one questionnaire: classification
// first, then the EU and NIST requirement stages concurrently, then gap
// analysis over both requirement sets. Any stage failure fails the whole
// run; no partial result is produced. The cross-framework join is computed
// locally from the static tables once both requirement stages return.
func (e *Engine) Run(ctx context.Context, q *questionnaire.Response) (*Result, error) {
	started := time.Now()

	classification, err := timed(questionnaire.StageClassification, func() (*ClassificationResult, error) {
		return e.classify(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("System classified",
		zap.String("classification", classification.Classification),
		zap.Float64("confidence", classification.Confidence),
	)

	var (
		wg      sync.WaitGroup
		eu      *EURequirements
		nist    *NISTRequirements
		euErr   error
		nistErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		eu, euErr = timed(questionnaire.StageEURequirements, func() (*EURequirements, error) {
			return e.euRequirements(ctx, q, classification)
		})
	}()
	go func() {
		defer wg.Done()
		nist, nistErr = timed(questionnaire.StageNISTRequirements, func() (*NISTRequirements, error) {
			return e.nistRequirements(ctx, q, classification)
		})
	}()
	wg.Wait()

	if euErr != nil {
		return nil, euErr
	}
	if nistErr != nil {
		return nil, nistErr
	}
	logger.Info("Requirements identified",
		zap.Int("eu_articles", len(eu.ApplicableArticles)),
		zap.Int("nist_subcategories", len(nist.ApplicableSubcategories)),
	)

	gaps, err := timed(questionnaire.StageGapAnalysis, func() (*GapAnalysis, error) {
		return e.gapAnalysis(ctx, q, eu, nist)
	})
	if err != nil {
		return nil, err
	}

	crossMapping := mapping.Build(eu.ApplicableArticles, nist.ApplicableSubcategories)

	result := &Result{
		Timestamp:             time.Now().UTC(),
		OrganizationName:      q.OrganizationLabel(),
		ProcessingTimeSeconds: int(time.Since(started).Seconds()),
		EUAIAct: EUAnalysis{
			Classification:     classification.Classification,
			Rationale:          classification.Rationale,
			AnnexIIICategories: classification.AnnexIIICategories,
			Confidence:         classification.Confidence,
			Ambiguities:        classification.Ambiguities,
			ApplicableArticles: eu.ApplicableArticles,
			Requirements:       eu.Requirements,
		},
		NISTAIRMF:             *nist,
		GapAnalysis:           *gaps,
		CrossFrameworkMapping: crossMapping,
	}

	logger.Info("Assessment complete",
		zap.Int("compliance_score", gaps.ComplianceScore),
		zap.Int("gaps", len(gaps.Gaps)),
		zap.Int("processing_seconds", result.ProcessingTimeSeconds),
	)

	return result, nil
}

func timed[T any](stage string, fn func() (T, error)) (T, error) {
	started := time.Now()
	result, err := fn()
	metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(started).Seconds())
	return result, err
}

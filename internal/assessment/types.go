package assessment

import (
	"fmt"
	"time"

	"github.com/complyforge/backend/internal/mapping"
)

// Risk tiers ordered by severity.
const (
	TierProhibited  = "PROHIBITED"
	TierHighRisk    = "HIGH_RISK"
	TierLimitedRisk = "LIMITED_RISK"
	TierMinimalRisk = "MINIMAL_RISK"
)

// Gap status ordered by completeness.
const (
	StatusMissing     = "missing"
	StatusPartial     = "partial"
	StatusImplemented = "implemented"
)

// Gap severities ordered critical > high > medium > low.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Source framework tags.
const (
	FrameworkEU   = "EU_AI_ACT"
	FrameworkNIST = "NIST_AI_RMF"
)

// ClassificationResult is the Stage 1 output. Confidence and ambiguities
// are advisory metadata; downstream stages only read the tier, rationale
// and matched categories.
type ClassificationResult struct {
	Classification     string   `json:"eu_classification"`
	Rationale          string   `json:"rationale"`
	AnnexIIICategories []string `json:"annex_iii_categories"`
	Confidence         float64  `json:"confidence"`
	Ambiguities        []string `json:"ambiguities"`
}

func (r *ClassificationResult) Validate() error {
	switch r.Classification {
	case TierProhibited, TierHighRisk, TierLimitedRisk, TierMinimalRisk:
	default:
		return fmt.Errorf("invalid classification tier: %q", r.Classification)
	}
	if r.Rationale == "" {
		return fmt.Errorf("classification rationale is required")
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence %v out of range [0,1]", r.Confidence)
	}
	return nil
}

// EURequirement is one applicable EU AI Act obligation.
type EURequirement struct {
	Article     int    `json:"article"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AppliesTo   string `json:"applies_to"`
	Mandatory   bool   `json:"mandatory"`
}

// EURequirements is the Stage 2 output.
type EURequirements struct {
	ApplicableArticles []int           `json:"applicable_articles"`
	Requirements       []EURequirement `json:"requirements"`
}

func (r *EURequirements) Validate() error {
	for i, req := range r.Requirements {
		switch req.AppliesTo {
		case "provider", "deployer", "both":
		default:
			return fmt.Errorf("requirement[%d]: invalid applies_to %q", i, req.AppliesTo)
		}
		if req.Article <= 0 {
			return fmt.Errorf("requirement[%d]: invalid article number %d", i, req.Article)
		}
	}
	return nil
}

// NISTSubcategory is one applicable NIST AI RMF leaf item.
type NISTSubcategory struct {
	ID          string `json:"id"`
	Function    string `json:"function"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Rationale   string `json:"rationale"`
}

// NISTRequirements is the Stage 3 output.
type NISTRequirements struct {
	ApplicableSubcategories []string          `json:"applicable_subcategories"`
	PriorityFunctions       []string          `json:"priority_functions"`
	SubcategoryDetails      []NISTSubcategory `json:"subcategory_details"`
}

func (r *NISTRequirements) Validate() error {
	for i, fn := range r.PriorityFunctions {
		switch fn {
		case "GOVERN", "MAP", "MEASURE", "MANAGE":
		default:
			return fmt.Errorf("priority_functions[%d]: unknown function %q", i, fn)
		}
	}
	for i, sub := range r.SubcategoryDetails {
		if sub.ID == "" {
			return fmt.Errorf("subcategory_details[%d]: id is required", i)
		}
	}
	return nil
}

// Recommendation is the actionable bundle attached to a gap.
type Recommendation struct {
	ImplementationSteps []string `json:"implementation_steps"`
	Examples            []string `json:"examples"`
	EffortEstimate      string   `json:"effort_estimate"`
	ResourcesNeeded     []string `json:"resources_needed"`
	CommonMistakes      []string `json:"common_mistakes,omitempty"`
}

// Gap grades one requirement against the organization's governance state.
type Gap struct {
	RequirementID    string         `json:"requirement_id"`
	Framework        string         `json:"framework"`
	RequirementTitle string         `json:"requirement_title"`
	Status           string         `json:"status"`
	Severity         string         `json:"severity"`
	CurrentState     string         `json:"current_state"`
	Recommendations  Recommendation `json:"recommendations"`
}

// ScoreBreakdown counts gaps per severity bucket plus implemented items.
type ScoreBreakdown struct {
	CriticalGaps int `json:"critical_gaps"`
	HighGaps     int `json:"high_gaps"`
	MediumGaps   int `json:"medium_gaps"`
	LowGaps      int `json:"low_gaps"`
	Implemented  int `json:"implemented"`
}

// GapAnalysis is the Stage 4 output.
type GapAnalysis struct {
	Gaps            []Gap          `json:"gaps"`
	ComplianceScore int            `json:"compliance_score"`
	ScoreBreakdown  ScoreBreakdown `json:"score_breakdown"`
}

func (g *GapAnalysis) Validate() error {
	for i, gap := range g.Gaps {
		switch gap.Status {
		case StatusMissing, StatusPartial, StatusImplemented:
		default:
			return fmt.Errorf("gaps[%d]: invalid status %q", i, gap.Status)
		}
		switch gap.Severity {
		case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		default:
			return fmt.Errorf("gaps[%d]: invalid severity %q", i, gap.Severity)
		}
		switch gap.Framework {
		case FrameworkEU, FrameworkNIST:
		default:
			return fmt.Errorf("gaps[%d]: invalid framework %q", i, gap.Framework)
		}
	}
	if g.ComplianceScore < 0 || g.ComplianceScore > 100 {
		return fmt.Errorf("compliance score %d out of range [0,100]", g.ComplianceScore)
	}

	b := g.ScoreBreakdown
	total := b.CriticalGaps + b.HighGaps + b.MediumGaps + b.LowGaps + b.Implemented
	if total != len(g.Gaps) {
		return fmt.Errorf("score breakdown sums to %d, want %d gaps", total, len(g.Gaps))
	}
	return nil
}

// EUAnalysis combines the Stage 1 and Stage 2 outputs for the final result.
type EUAnalysis struct {
	Classification     string          `json:"classification"`
	Rationale          string          `json:"rationale"`
	AnnexIIICategories []string        `json:"annex_iii_categories"`
	Confidence         float64         `json:"confidence"`
	Ambiguities        []string        `json:"ambiguities"`
	ApplicableArticles []int           `json:"applicable_articles"`
	Requirements       []EURequirement `json:"requirements"`
}

// Result is the composite assessment owned by the orchestrator during a
// run and handed to persistence once complete. Fully serializable to plain
// nested maps, lists and scalars.
type Result struct {
	Timestamp             time.Time            `json:"timestamp"`
	OrganizationName      string               `json:"organization_name"`
	ProcessingTimeSeconds int                  `json:"processing_time_seconds"`
	EUAIAct               EUAnalysis           `json:"eu_ai_act"`
	NISTAIRMF             NISTRequirements     `json:"nist_ai_rmf"`
	GapAnalysis           GapAnalysis          `json:"gap_analysis"`
	CrossFrameworkMapping mapping.CrossMapping `json:"cross_framework_mapping"`
}

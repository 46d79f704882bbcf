package report

import (
	"strings"
	"testing"
	"time"

	"github.com/complyforge/backend/internal/assessment"
	"github.com/complyforge/backend/internal/mapping"
)

func sampleResult() *assessment.Result {
	return &assessment.Result{
		Timestamp:             time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		OrganizationName:      "private_company - healthcare",
		ProcessingTimeSeconds: 95,
		EUAIAct: assessment.EUAnalysis{
			Classification:     assessment.TierHighRisk,
			Rationale:          "Diagnostic system used in clinical settings",
			Confidence:         0.92,
			ApplicableArticles: []int{9, 14},
			Requirements: []assessment.EURequirement{
				{Article: 9, Title: "Risk management system", Description: "Establish a risk process", AppliesTo: "provider", Mandatory: true},
			},
		},
		NISTAIRMF: assessment.NISTRequirements{
			ApplicableSubcategories: []string{"GOVERN.1.3", "MAP.3.5"},
			PriorityFunctions:       []string{"GOVERN", "MAP"},
		},
		GapAnalysis: assessment.GapAnalysis{
			Gaps: []assessment.Gap{
				{
					RequirementID:    "Article_9",
					Framework:        assessment.FrameworkEU,
					RequirementTitle: "Risk management system",
					Status:           assessment.StatusMissing,
					Severity:         assessment.SeverityCritical,
					CurrentState:     "No process exists",
					Recommendations: assessment.Recommendation{
						ImplementationSteps: []string{"Appoint an owner", "Draft the process"},
						Examples:            []string{"Quarterly risk reviews"},
						EffortEstimate:      "3 months",
						ResourcesNeeded:     []string{"Compliance lead"},
						CommonMistakes:      []string{"Treating it as a one-off exercise"},
					},
				},
			},
			ComplianceScore: 40,
			ScoreBreakdown:  assessment.ScoreBreakdown{CriticalGaps: 1},
		},
		CrossFrameworkMapping: mapping.Build([]int{9, 14}, []string{"GOVERN.1.3", "MAP.3.5"}),
	}
}

func TestMarkdown_ContainsAllSections(t *testing.T) {
	md := Markdown(sampleResult())

	sections := []string{
		"# AI Compliance Assessment Report",
		"**Organization:** private_company - healthcare",
		"**Risk Level:** HIGH_RISK",
		"**Confidence:** 92.0%",
		"**Overall Score:** 40/100",
		"Article 9, Article 14",
		"**Article 9: Risk management system**",
		"## NIST AI RMF Analysis",
		"GOVERN, MAP",
		"### Applicable Subcategories (2)",
		"### Risk management system (EU_AI_ACT)",
		"**Status:** MISSING | **Severity:** CRITICAL",
		"1. Appoint an owner",
		"2. Draft the process",
		"**Effort Estimate:** 3 months",
		"**Common Mistakes to Avoid:**",
	}

	for _, s := range sections {
		if !strings.Contains(md, s) {
			t.Errorf("report missing %q", s)
		}
	}
}

func TestMarkdown_OmitsEmptyCommonMistakes(t *testing.T) {
	result := sampleResult()
	result.GapAnalysis.Gaps[0].Recommendations.CommonMistakes = nil

	md := Markdown(result)
	if strings.Contains(md, "Common Mistakes") {
		t.Error("empty common mistakes section should be omitted")
	}
}

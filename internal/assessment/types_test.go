package assessment

import "testing"

func validGapAnalysis() GapAnalysis {
	return GapAnalysis{
		Gaps: []Gap{
			{
				RequirementID:    "Article_9",
				Framework:        FrameworkEU,
				RequirementTitle: "Risk management system",
				Status:           StatusMissing,
				Severity:         SeverityCritical,
				CurrentState:     "No risk process in place",
			},
			{
				RequirementID:    "GOVERN.1.1",
				Framework:        FrameworkNIST,
				RequirementTitle: "Legal and regulatory requirements",
				Status:           StatusImplemented,
				Severity:         SeverityLow,
				CurrentState:     "Tracked by legal team",
			},
		},
		ComplianceScore: 55,
		ScoreBreakdown: ScoreBreakdown{
			CriticalGaps: 1,
			Implemented:  1,
		},
	}
}

func TestGapAnalysisValidate_Accepts(t *testing.T) {
	g := validGapAnalysis()
	if err := g.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGapAnalysisValidate_BreakdownMustSumToGapCount(t *testing.T) {
	g := validGapAnalysis()
	g.ScoreBreakdown.HighGaps = 3
	if err := g.Validate(); err == nil {
		t.Error("expected error when breakdown sum exceeds gap count")
	}

	g = validGapAnalysis()
	g.ScoreBreakdown.Implemented = 0
	if err := g.Validate(); err == nil {
		t.Error("expected error when breakdown sum is short of gap count")
	}
}

func TestGapAnalysisValidate_RejectsBadEnums(t *testing.T) {
	g := validGapAnalysis()
	g.Gaps[0].Status = "done"
	if err := g.Validate(); err == nil {
		t.Error("expected error for invalid status")
	}

	g = validGapAnalysis()
	g.Gaps[0].Severity = "severe"
	if err := g.Validate(); err == nil {
		t.Error("expected error for invalid severity")
	}

	g = validGapAnalysis()
	g.Gaps[1].Framework = "ISO_42001"
	if err := g.Validate(); err == nil {
		t.Error("expected error for invalid framework")
	}
}

func TestGapAnalysisValidate_ScoreRange(t *testing.T) {
	g := validGapAnalysis()
	g.ComplianceScore = 101
	if err := g.Validate(); err == nil {
		t.Error("expected error for score above 100")
	}

	g = validGapAnalysis()
	g.ComplianceScore = -1
	if err := g.Validate(); err == nil {
		t.Error("expected error for negative score")
	}
}

func TestClassificationValidate(t *testing.T) {
	c := ClassificationResult{
		Classification: TierHighRisk,
		Rationale:      "Medical device used for diagnostics",
		Confidence:     0.9,
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.Classification = "UNKNOWN_RISK"
	if err := c.Validate(); err == nil {
		t.Error("expected error for unknown tier")
	}

	c.Classification = TierMinimalRisk
	c.Confidence = 1.5
	if err := c.Validate(); err == nil {
		t.Error("expected error for out-of-range confidence")
	}

	c.Confidence = 0.8
	c.Rationale = ""
	if err := c.Validate(); err == nil {
		t.Error("expected error for empty rationale")
	}
}

func TestEURequirementsValidate(t *testing.T) {
	r := EURequirements{
		ApplicableArticles: []int{9},
		Requirements: []EURequirement{
			{Article: 9, Title: "Risk management", Description: "x", AppliesTo: "provider", Mandatory: true},
		},
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r.Requirements[0].AppliesTo = "everyone"
	if err := r.Validate(); err == nil {
		t.Error("expected error for invalid applies_to")
	}

	r.Requirements[0].AppliesTo = "both"
	r.Requirements[0].Article = 0
	if err := r.Validate(); err == nil {
		t.Error("expected error for invalid article number")
	}
}

func TestNISTRequirementsValidate(t *testing.T) {
	r := NISTRequirements{
		ApplicableSubcategories: []string{"GOVERN.1.1"},
		PriorityFunctions:       []string{"GOVERN"},
		SubcategoryDetails: []NISTSubcategory{
			{ID: "GOVERN.1.1", Function: "GOVERN", Description: "x", Rationale: "y"},
		},
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r.PriorityFunctions = []string{"OPERATE"}
	if err := r.Validate(); err == nil {
		t.Error("expected error for unknown function")
	}

	r.PriorityFunctions = []string{"GOVERN"}
	r.SubcategoryDetails[0].ID = ""
	if err := r.Validate(); err == nil {
		t.Error("expected error for empty subcategory id")
	}
}

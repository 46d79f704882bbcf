package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/complyforge/backend/internal/assessment"
)

// Markdown renders a completed assessment as a downloadable report.
func Markdown(result *assessment.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# AI Compliance Assessment Report\n\n")
	fmt.Fprintf(&b, "**Organization:** %s\n", result.OrganizationName)
	fmt.Fprintf(&b, "**Generated:** %s\n", result.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "**Processing Time:** %d seconds\n\n---\n\n", result.ProcessingTimeSeconds)

	fmt.Fprintf(&b, "## Executive Summary\n\n")
	fmt.Fprintf(&b, "### EU AI Act Classification\n")
	fmt.Fprintf(&b, "**Risk Level:** %s\n\n", result.EUAIAct.Classification)
	fmt.Fprintf(&b, "**Confidence:** %.1f%%\n\n", result.EUAIAct.Confidence*100)
	fmt.Fprintf(&b, "**Rationale:** %s\n\n", result.EUAIAct.Rationale)

	breakdown := result.GapAnalysis.ScoreBreakdown
	fmt.Fprintf(&b, "### Compliance Score\n")
	fmt.Fprintf(&b, "**Overall Score:** %d/100\n\n", result.GapAnalysis.ComplianceScore)
	fmt.Fprintf(&b, "**Gap Breakdown:**\n")
	fmt.Fprintf(&b, "- Critical Gaps: %d\n", breakdown.CriticalGaps)
	fmt.Fprintf(&b, "- High Gaps: %d\n", breakdown.HighGaps)
	fmt.Fprintf(&b, "- Medium Gaps: %d\n", breakdown.MediumGaps)
	fmt.Fprintf(&b, "- Low Gaps: %d\n", breakdown.LowGaps)
	fmt.Fprintf(&b, "- Implemented: %d\n\n---\n\n", breakdown.Implemented)

	fmt.Fprintf(&b, "## EU AI Act Analysis\n\n")
	fmt.Fprintf(&b, "### Applicable Articles\n%s\n\n", articleList(result.EUAIAct.ApplicableArticles))
	fmt.Fprintf(&b, "### Requirements\n")
	for _, req := range result.EUAIAct.Requirements {
		fmt.Fprintf(&b, "\n**Article %d: %s**\n", req.Article, req.Title)
		fmt.Fprintf(&b, "- %s\n", req.Description)
		fmt.Fprintf(&b, "- Applies to: %s\n", req.AppliesTo)
		fmt.Fprintf(&b, "- Mandatory: %s\n", yesNo(req.Mandatory))
	}

	fmt.Fprintf(&b, "\n---\n\n## NIST AI RMF Analysis\n\n")
	fmt.Fprintf(&b, "### Priority Functions\n%s\n\n", strings.Join(result.NISTAIRMF.PriorityFunctions, ", "))
	fmt.Fprintf(&b, "### Applicable Subcategories (%d)\n%s\n\n---\n\n",
		len(result.NISTAIRMF.ApplicableSubcategories),
		strings.Join(result.NISTAIRMF.ApplicableSubcategories, ", "),
	)

	fmt.Fprintf(&b, "## Compliance Gaps and Recommendations\n\n")
	for _, gap := range result.GapAnalysis.Gaps {
		fmt.Fprintf(&b, "\n### %s (%s)\n\n", gap.RequirementTitle, gap.Framework)
		fmt.Fprintf(&b, "**Status:** %s | **Severity:** %s\n\n",
			strings.ToUpper(gap.Status), strings.ToUpper(gap.Severity))
		fmt.Fprintf(&b, "**Current State:** %s\n\n", gap.CurrentState)

		fmt.Fprintf(&b, "**Implementation Steps:**\n")
		for i, step := range gap.Recommendations.ImplementationSteps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}

		fmt.Fprintf(&b, "\n**Examples:**\n")
		for _, example := range gap.Recommendations.Examples {
			fmt.Fprintf(&b, "- %s\n", example)
		}

		fmt.Fprintf(&b, "\n**Effort Estimate:** %s\n\n", gap.Recommendations.EffortEstimate)

		fmt.Fprintf(&b, "**Resources Needed:**\n")
		for _, resource := range gap.Recommendations.ResourcesNeeded {
			fmt.Fprintf(&b, "- %s\n", resource)
		}

		if len(gap.Recommendations.CommonMistakes) > 0 {
			fmt.Fprintf(&b, "\n**Common Mistakes to Avoid:**\n")
			for _, mistake := range gap.Recommendations.CommonMistakes {
				fmt.Fprintf(&b, "- %s\n", mistake)
			}
		}

		fmt.Fprintf(&b, "\n---\n")
	}

	return b.String()
}

func articleList(articles []int) string {
	parts := make([]string, len(articles))
	for i, a := range articles {
		parts[i] = fmt.Sprintf("Article %d", a)
	}
	return strings.Join(parts, ", ")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

package assessment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/complyforge/backend/internal/llm"
	"github.com/complyforge/backend/internal/questionnaire"
)

// Per-stage output budgets. Gap analysis carries the recommendation text
// and needs the most room.
const (
	classificationMaxTokens = 2000
	euRequirementsMaxTokens = 4000
	nistMaxTokens           = 6000
	gapAnalysisMaxTokens    = 16000
)

// Gap analysis runs warmer than the other stages: recommendation phrasing
// benefits from variation, classification and requirement selection do not.
const (
	analyticTemperature = 0.0
	gapTemperature      = 0.5
)

var classificationSchema = llm.ToolSchema{
	Name:        "output_eu_classification",
	Description: "Output the EU AI Act classification result",
	Parameters: json.RawMessage(`{
		"type": "object",
		"properties": {
			"eu_classification": {
				"type": "string",
				"enum": ["PROHIBITED", "HIGH_RISK", "LIMITED_RISK", "MINIMAL_RISK"],
				"description": "The EU AI Act risk classification"
			},
			"rationale": {"type": "string", "description": "Detailed explanation of the classification"},
			"annex_iii_categories": {
				"type": "array", "items": {"type": "string"},
				"description": "Matched Annex III categories if high-risk"
			},
			"confidence": {"type": "number", "description": "Confidence score between 0 and 1"},
			"ambiguities": {
				"type": "array", "items": {"type": "string"},
				"description": "Unclear areas or ambiguities"
			}
		},
		"required": ["eu_classification", "rationale", "confidence"]
	}`),
}

var euRequirementsSchema = llm.ToolSchema{
	Name:        "output_eu_requirements",
	Description: "Output the applicable EU AI Act requirements",
	Parameters: json.RawMessage(`{
		"type": "object",
		"properties": {
			"applicable_articles": {
				"type": "array", "items": {"type": "integer"},
				"description": "Applicable article numbers"
			},
			"requirements": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"article": {"type": "integer"},
						"title": {"type": "string"},
						"description": {"type": "string"},
						"applies_to": {"type": "string", "enum": ["provider", "deployer", "both"]},
						"mandatory": {"type": "boolean"}
					},
					"required": ["article", "title", "description", "applies_to", "mandatory"]
				}
			}
		},
		"required": ["applicable_articles", "requirements"]
	}`),
}

var nistRequirementsSchema = llm.ToolSchema{
	Name:        "output_nist_requirements",
	Description: "Output the applicable NIST AI RMF requirements",
	Parameters: json.RawMessage(`{
		"type": "object",
		"properties": {
			"applicable_subcategories": {
				"type": "array", "items": {"type": "string"},
				"description": "Applicable subcategory IDs"
			},
			"priority_functions": {
				"type": "array",
				"items": {"type": "string", "enum": ["GOVERN", "MAP", "MEASURE", "MANAGE"]},
				"description": "Priority functions for this system"
			},
			"subcategory_details": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"id": {"type": "string"},
						"function": {"type": "string"},
						"category": {"type": "string"},
						"description": {"type": "string"},
						"rationale": {"type": "string"}
					},
					"required": ["id", "function", "description", "rationale"]
				}
			}
		},
		"required": ["applicable_subcategories", "priority_functions", "subcategory_details"]
	}`),
}

var gapAnalysisSchema = llm.ToolSchema{
	Name:        "output_gap_analysis",
	Description: "Output the gap analysis and recommendations",
	Parameters: json.RawMessage(`{
		"type": "object",
		"properties": {
			"gaps": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"requirement_id": {"type": "string"},
						"framework": {"type": "string", "enum": ["EU_AI_ACT", "NIST_AI_RMF"]},
						"requirement_title": {"type": "string"},
						"status": {"type": "string", "enum": ["missing", "partial", "implemented"]},
						"severity": {"type": "string", "enum": ["critical", "high", "medium", "low"]},
						"current_state": {"type": "string"},
						"recommendations": {
							"type": "object",
							"properties": {
								"implementation_steps": {"type": "array", "items": {"type": "string"}},
								"examples": {"type": "array", "items": {"type": "string"}},
								"effort_estimate": {"type": "string"},
								"resources_needed": {"type": "array", "items": {"type": "string"}},
								"common_mistakes": {"type": "array", "items": {"type": "string"}}
							},
							"required": ["implementation_steps", "examples", "effort_estimate", "resources_needed"]
						}
					},
					"required": ["requirement_id", "framework", "requirement_title", "status", "severity", "current_state", "recommendations"]
				}
			},
			"compliance_score": {"type": "integer", "description": "Overall compliance score 0-100"},
			"score_breakdown": {
				"type": "object",
				"properties": {
					"critical_gaps": {"type": "integer"},
					"high_gaps": {"type": "integer"},
					"medium_gaps": {"type": "integer"},
					"low_gaps": {"type": "integer"},
					"implemented": {"type": "integer"}
				},
				"required": ["critical_gaps", "high_gaps", "medium_gaps", "low_gaps", "implemented"]
			}
		},
		"required": ["gaps", "compliance_score", "score_breakdown"]
	}`),
}

// classify runs Stage 1. It sees the full questionnaire plus the static
// classification reference text, and checks prohibited practices, then
// high-risk categories, then transparency triggers, in that order.
func (e *Engine) classify(ctx context.Context, q *questionnaire.Response) (*ClassificationResult, error) {
	view, err := marshalView(questionnaire.View(q, questionnaire.StageClassification))
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`You are an expert in EU AI Act compliance. Classify this AI system.

<EU_AI_ACT_CLASSIFICATION_RULES>
%s
</EU_AI_ACT_CLASSIFICATION_RULES>

<QUESTIONNAIRE_RESPONSES>
%s
</QUESTIONNAIRE_RESPONSES>

Instructions:
1. Check if the system matches prohibited practices (Article 5)
2. Check if it is high-risk (Article 6 + Annex III)
3. Check if it requires transparency (Article 50)
4. Otherwise classify as minimal risk

Provide the classification with clear reasoning. Be specific about which Annex III categories apply if high-risk.`,
		e.corpus.EUClassification, view)

	var result ClassificationResult
	if err := e.invokeInto(ctx, llm.Request{
		Prompt:      prompt,
		MaxTokens:   classificationMaxTokens,
		Temperature: analyticTemperature,
		Tool:        classificationSchema,
	}, &result); err != nil {
		return nil, fmt.Errorf("classification stage: %w", err)
	}

	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("classification stage: %w", err)
	}
	return &result, nil
}

// euRequirements runs Stage 2. It sees the system-characteristics view and
// the Stage 1 output; articles must follow from the classification tier.
func (e *Engine) euRequirements(ctx context.Context, q *questionnaire.Response, cls *ClassificationResult) (*EURequirements, error) {
	view, err := marshalView(questionnaire.View(q, questionnaire.StageEURequirements))
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`You are an expert in EU AI Act compliance. Identify applicable requirements.

<EU_AI_ACT_REQUIREMENTS>
%s
</EU_AI_ACT_REQUIREMENTS>

<SYSTEM_CLASSIFICATION>
Classification: %s
Rationale: %s
Annex III Categories: %v
</SYSTEM_CLASSIFICATION>

<SYSTEM_CHARACTERISTICS>
%s
</SYSTEM_CHARACTERISTICS>

Instructions:
Based on the classification, identify:
1. All applicable articles
2. Specific requirements from each article
3. Whether obligations apply to provider, deployer, or both

Be comprehensive and precise. Only include articles that actually apply based on the classification.`,
		e.corpus.EURequirements, cls.Classification, cls.Rationale, cls.AnnexIIICategories, view)

	var result EURequirements
	if err := e.invokeInto(ctx, llm.Request{
		Prompt:      prompt,
		MaxTokens:   euRequirementsMaxTokens,
		Temperature: analyticTemperature,
		Tool:        euRequirementsSchema,
	}, &result); err != nil {
		return nil, fmt.Errorf("eu requirements stage: %w", err)
	}

	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("eu requirements stage: %w", err)
	}
	return &result, nil
}

// nistRequirements runs Stage 3. Independent of Stage 2; shares only the
// Stage 1 classification. The reference text comes pre-filtered by
// lifecycle stage and risk.
func (e *Engine) nistRequirements(ctx context.Context, q *questionnaire.Response, cls *ClassificationResult) (*NISTRequirements, error) {
	view, err := marshalView(questionnaire.View(q, questionnaire.StageNISTRequirements))
	if err != nil {
		return nil, err
	}

	nistText := e.corpus.SelectNIST(q.Stage, q.Criticality, cls.Classification)

	prompt := fmt.Sprintf(`You are an expert in the NIST AI Risk Management Framework. Identify applicable requirements.

<NIST_AI_RMF>
%s
</NIST_AI_RMF>

<CONTEXT>
EU AI Act Classification: %s
System Stage: %s
System Type: %s
Risk Level: %s
</CONTEXT>

<SYSTEM_CHARACTERISTICS>
%s
</SYSTEM_CHARACTERISTICS>

Instructions:
Identify:
1. All applicable NIST subcategories (format: GOVERN.1.1, MAP.3.5, etc.)
2. Priority functions (GOVERN, MAP, MEASURE, MANAGE)
3. Specific requirements for each subcategory

Note: GOVERN always applies to all AI systems. MAP, MEASURE, MANAGE are context-dependent.`,
		nistText, cls.Classification, q.Stage, q.MainPurpose, q.Criticality, view)

	var result NISTRequirements
	if err := e.invokeInto(ctx, llm.Request{
		Prompt:      prompt,
		MaxTokens:   nistMaxTokens,
		Temperature: analyticTemperature,
		Tool:        nistRequirementsSchema,
	}, &result); err != nil {
		return nil, fmt.Errorf("nist requirements stage: %w", err)
	}

	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("nist requirements stage: %w", err)
	}
	return &result, nil
}

// gapAnalysis runs Stage 4. It sees the governance-maturity view plus both
// complete requirement sets, and must grade every requirement exactly once.
func (e *Engine) gapAnalysis(ctx context.Context, q *questionnaire.Response, eu *EURequirements, nist *NISTRequirements) (*GapAnalysis, error) {
	view, err := marshalView(questionnaire.View(q, questionnaire.StageGapAnalysis))
	if err != nil {
		return nil, err
	}

	euJSON, err := json.MarshalIndent(eu, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("gap analysis stage: %w", err)
	}
	nistJSON, err := json.MarshalIndent(nist, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("gap analysis stage: %w", err)
	}

	prompt := fmt.Sprintf(`You are an expert compliance auditor. Analyze gaps between current state and requirements.

<APPLICABLE_EU_REQUIREMENTS>
%s
</APPLICABLE_EU_REQUIREMENTS>

<APPLICABLE_NIST_REQUIREMENTS>
%s
</APPLICABLE_NIST_REQUIREMENTS>

<CURRENT_STATE_GOVERNANCE>
%s
</CURRENT_STATE_GOVERNANCE>

Instructions:
For each requirement from EU and NIST, emit exactly one gap entry:
1. Determine status: missing, partial, or implemented
2. Assign severity (critical, high, medium, low) based on whether the requirement is mandatory and the risk classification, not on status alone
3. Describe the current state briefly
4. Provide implementation recommendations:
   - Concrete steps (3-5 actionable items)
   - Real-world examples from similar organizations
   - Estimated effort (time and resources)
   - Resources needed (roles, tools)
   - Common mistakes to avoid

Calculate the overall compliance score (0-100) based on the gap severity distribution.

Be comprehensive in recommendations - this is the most valuable output for users.`,
		euJSON, nistJSON, view)

	var result GapAnalysis
	if err := e.invokeInto(ctx, llm.Request{
		Prompt:      prompt,
		MaxTokens:   gapAnalysisMaxTokens,
		Temperature: gapTemperature,
		Tool:        gapAnalysisSchema,
	}, &result); err != nil {
		return nil, fmt.Errorf("gap analysis stage: %w", err)
	}

	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("gap analysis stage: %w", err)
	}
	return &result, nil
}

func (e *Engine) invokeInto(ctx context.Context, req llm.Request, out interface{}) error {
	raw, err := e.invoker.Invoke(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding structured output for %s: %w", req.Tool.Name, err)
	}
	return nil
}

func marshalView(view map[string]interface{}) (string, error) {
	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling questionnaire view: %w", err)
	}
	return string(data), nil
}

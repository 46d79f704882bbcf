package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/complyforge/backend/internal/corpus"
	"github.com/complyforge/backend/internal/llm"
	"github.com/complyforge/backend/internal/questionnaire"
)

// fakeInvoker answers by tool name and records every call. Safe for the
// concurrent requirement stages.
type fakeInvoker struct {
	mu        sync.Mutex
	responses map[string]json.RawMessage
	failures  map[string]error
	calls     []string
}

func (f *fakeInvoker) Invoke(ctx context.Context, req llm.Request) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req.Tool.Name)
	f.mu.Unlock()

	if err, ok := f.failures[req.Tool.Name]; ok {
		return nil, err
	}
	resp, ok := f.responses[req.Tool.Name]
	if !ok {
		return nil, errors.New("unexpected tool " + req.Tool.Name)
	}
	return resp, nil
}

func (f *fakeInvoker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testCorpus() *corpus.Library {
	return &corpus.Library{
		EUClassification: "classification rules",
		EURequirements:   "requirements text",
		NISTGovern:       "govern",
		NISTMap:          "map",
		NISTMeasure:      "measure",
		NISTManage:       "manage",
	}
}

func testQuestionnaire() *questionnaire.Response {
	return &questionnaire.Response{
		OrganizationType:   "private_company",
		Industry:           "healthcare",
		Regions:            []string{"eu"},
		CompanySize:        "sme",
		MainPurpose:        "Diagnostic support",
		DataTypes:          []string{"health"},
		Stage:              "deployment",
		DeveloperType:      "in_house",
		Criticality:        "high",
		Policies:           "none",
		DesignatedTeam:     "none",
		ApprovalProcess:    "none",
		RecordKeeping:      "none",
		RightsImpact:       "direct",
		HumanOversight:     "on_demand",
		TestingPerformed:   "internal",
		ComplaintMechanism: false,
		Goal:               "understand_obligations",
		OutputPreference:   "summary",
	}
}

func happyPathResponses() map[string]json.RawMessage {
	return map[string]json.RawMessage{
		"output_eu_classification": json.RawMessage(`{
			"eu_classification": "HIGH_RISK",
			"rationale": "Medical diagnostic system",
			"annex_iii_categories": ["Medical devices"],
			"confidence": 0.92
		}`),
		"output_eu_requirements": json.RawMessage(`{
			"applicable_articles": [9, 14],
			"requirements": [
				{"article": 9, "title": "Risk management system", "description": "x", "applies_to": "provider", "mandatory": true},
				{"article": 14, "title": "Human oversight", "description": "y", "applies_to": "both", "mandatory": true}
			]
		}`),
		"output_nist_requirements": json.RawMessage(`{
			"applicable_subcategories": ["GOVERN.1.3", "MAP.3.5"],
			"priority_functions": ["GOVERN", "MAP"],
			"subcategory_details": [
				{"id": "GOVERN.1.3", "function": "GOVERN", "description": "d", "rationale": "r"},
				{"id": "MAP.3.5", "function": "MAP", "description": "d", "rationale": "r"}
			]
		}`),
		"output_gap_analysis": json.RawMessage(`{
			"gaps": [
				{
					"requirement_id": "Article_9",
					"framework": "EU_AI_ACT",
					"requirement_title": "Risk management system",
					"status": "missing",
					"severity": "critical",
					"current_state": "none",
					"recommendations": {
						"implementation_steps": ["establish process"],
						"examples": ["example"],
						"effort_estimate": "3 months",
						"resources_needed": ["compliance lead"]
					}
				}
			],
			"compliance_score": 40,
			"score_breakdown": {"critical_gaps": 1, "high_gaps": 0, "medium_gaps": 0, "low_gaps": 0, "implemented": 0}
		}`),
	}
}

func TestRun_ComposesResultFromAllStages(t *testing.T) {
	invoker := &fakeInvoker{responses: happyPathResponses()}
	engine := NewEngine(invoker, testCorpus())

	result, err := engine.Run(context.Background(), testQuestionnaire())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if invoker.callCount() != 4 {
		t.Errorf("made %d reasoning calls, want 4", invoker.callCount())
	}

	if result.EUAIAct.Classification != TierHighRisk {
		t.Errorf("classification = %s, want HIGH_RISK", result.EUAIAct.Classification)
	}
	if len(result.EUAIAct.ApplicableArticles) != 2 {
		t.Errorf("applicable articles = %v, want [9 14]", result.EUAIAct.ApplicableArticles)
	}
	if result.GapAnalysis.ComplianceScore != 40 {
		t.Errorf("compliance score = %d, want 40", result.GapAnalysis.ComplianceScore)
	}
	if result.OrganizationName != "private_company - healthcare" {
		t.Errorf("organization name = %q", result.OrganizationName)
	}

	// Article 9 and GOVERN.1.3 are related in the static table and both
	// applicable, so the join must surface them in both directions.
	if got := result.CrossFrameworkMapping.EUToNIST["Article_9"]; len(got) != 1 || got[0] != "GOVERN.1.3" {
		t.Errorf("EUToNIST[Article_9] = %v, want [GOVERN.1.3]", got)
	}
	if got := result.CrossFrameworkMapping.NISTToEU["MAP.3.5"]; len(got) != 1 || got[0] != "Article_14" {
		t.Errorf("NISTToEU[MAP.3.5] = %v, want [Article_14]", got)
	}
}

func TestRun_ClassificationFailureStopsPipeline(t *testing.T) {
	invoker := &fakeInvoker{
		responses: happyPathResponses(),
		failures: map[string]error{
			"output_eu_classification": errors.New("reasoning unavailable"),
		},
	}
	engine := NewEngine(invoker, testCorpus())

	_, err := engine.Run(context.Background(), testQuestionnaire())
	if err == nil {
		t.Fatal("expected error from failed classification")
	}

	if invoker.callCount() != 1 {
		t.Errorf("made %d reasoning calls, want 1: later stages must not run", invoker.callCount())
	}
}

func TestRun_RequirementStageFailureFailsRun(t *testing.T) {
	invoker := &fakeInvoker{
		responses: happyPathResponses(),
		failures: map[string]error{
			"output_nist_requirements": errors.New("reasoning unavailable"),
		},
	}
	engine := NewEngine(invoker, testCorpus())

	_, err := engine.Run(context.Background(), testQuestionnaire())
	if err == nil {
		t.Fatal("expected error from failed nist stage")
	}

	// Classification plus both concurrent requirement stages ran; gap
	// analysis must not.
	if invoker.callCount() != 3 {
		t.Errorf("made %d reasoning calls, want 3", invoker.callCount())
	}
}

func TestRun_InvalidStageOutputFailsRun(t *testing.T) {
	responses := happyPathResponses()
	responses["output_gap_analysis"] = json.RawMessage(`{
		"gaps": [],
		"compliance_score": 40,
		"score_breakdown": {"critical_gaps": 5, "high_gaps": 0, "medium_gaps": 0, "low_gaps": 0, "implemented": 0}
	}`)

	invoker := &fakeInvoker{responses: responses}
	engine := NewEngine(invoker, testCorpus())

	_, err := engine.Run(context.Background(), testQuestionnaire())
	if err == nil {
		t.Fatal("expected error for breakdown that does not sum to gap count")
	}
}

func TestRun_MinimalRiskStillProducesFullResult(t *testing.T) {
	responses := happyPathResponses()
	responses["output_eu_classification"] = json.RawMessage(`{
		"eu_classification": "MINIMAL_RISK",
		"rationale": "Internal tooling with no user impact",
		"confidence": 0.97
	}`)
	responses["output_eu_requirements"] = json.RawMessage(`{
		"applicable_articles": [],
		"requirements": []
	}`)
	responses["output_nist_requirements"] = json.RawMessage(`{
		"applicable_subcategories": ["GOVERN.1.1"],
		"priority_functions": ["GOVERN"],
		"subcategory_details": [
			{"id": "GOVERN.1.1", "function": "GOVERN", "description": "d", "rationale": "r"}
		]
	}`)
	responses["output_gap_analysis"] = json.RawMessage(`{
		"gaps": [
			{
				"requirement_id": "GOVERN.1.1",
				"framework": "NIST_AI_RMF",
				"requirement_title": "Legal requirements understood",
				"status": "implemented",
				"severity": "low",
				"current_state": "handled",
				"recommendations": {
					"implementation_steps": ["keep tracking"],
					"examples": ["e"],
					"effort_estimate": "none",
					"resources_needed": ["legal"]
				}
			}
		],
		"compliance_score": 95,
		"score_breakdown": {"critical_gaps": 0, "high_gaps": 0, "medium_gaps": 0, "low_gaps": 1, "implemented": 0}
	}`)

	invoker := &fakeInvoker{responses: responses}
	engine := NewEngine(invoker, testCorpus())

	result, err := engine.Run(context.Background(), testQuestionnaire())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if invoker.callCount() != 4 {
		t.Errorf("made %d reasoning calls, want all 4 stages", invoker.callCount())
	}
	if len(result.CrossFrameworkMapping.EUToNIST) != 0 {
		t.Errorf("no EU articles applicable, EUToNIST should be empty: %v", result.CrossFrameworkMapping.EUToNIST)
	}
	// GOVERN.1.1 relates only to Articles 5 and 6, neither applicable.
	if len(result.CrossFrameworkMapping.NISTToEU) != 0 {
		t.Errorf("NISTToEU should be empty: %v", result.CrossFrameworkMapping.NISTToEU)
	}
}

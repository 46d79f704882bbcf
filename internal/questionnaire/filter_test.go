package questionnaire

import "testing"

func sampleResponse() *Response {
	return &Response{
		OrganizationType:   "private_company",
		Industry:           "healthcare",
		Regions:            []string{"eu", "us"},
		CompanySize:        "sme",
		MainPurpose:        "Diagnostic triage for radiology images",
		DataTypes:          []string{"health", "personal"},
		Stage:              "deployment",
		DeveloperType:      "in_house",
		Criticality:        "high",
		Policies:           "partial",
		DesignatedTeam:     "informal",
		ApprovalProcess:    "none",
		RecordKeeping:      "some",
		RightsImpact:       "direct",
		HumanOversight:     "continuous",
		TestingPerformed:   "internal only",
		ComplaintMechanism: false,
		Goal:               "prepare_audit",
		OutputPreference:   "detailed",
		TargetStandards:    []string{"ISO 42001"},
	}
}

func TestView_ClassificationSeesAllFields(t *testing.T) {
	view := View(sampleResponse(), StageClassification)
	if len(view) != 20 {
		t.Fatalf("classification view has %d fields, want 20", len(view))
	}
}

func TestView_EURequirementsExcludesGovernance(t *testing.T) {
	view := View(sampleResponse(), StageEURequirements)

	forbidden := []string{
		"policies", "designated_team", "approval_process", "record_keeping",
		"human_oversight", "testing_performed", "complaint_mechanism",
		"goal", "output_preference", "target_standards",
	}
	for _, f := range forbidden {
		if _, ok := view[f]; ok {
			t.Errorf("eu requirements view leaked field %q", f)
		}
	}

	if _, ok := view["regions"]; !ok {
		t.Error("eu requirements view missing regions")
	}
	if _, ok := view["main_purpose"]; !ok {
		t.Error("eu requirements view missing main_purpose")
	}
}

func TestView_NISTRequirementsExcludesRegions(t *testing.T) {
	view := View(sampleResponse(), StageNISTRequirements)

	if _, ok := view["regions"]; ok {
		t.Error("nist requirements view must not include regions")
	}
	if _, ok := view["policies"]; ok {
		t.Error("nist requirements view leaked governance field policies")
	}
	if _, ok := view["criticality"]; !ok {
		t.Error("nist requirements view missing criticality")
	}
}

func TestView_GapAnalysisExcludesSystemCharacteristics(t *testing.T) {
	view := View(sampleResponse(), StageGapAnalysis)

	forbidden := []string{
		"main_purpose", "data_types", "stage", "developer_type",
		"criticality", "regions", "industry", "organization_type",
	}
	for _, f := range forbidden {
		if _, ok := view[f]; ok {
			t.Errorf("gap analysis view leaked field %q", f)
		}
	}

	expected := []string{
		"policies", "designated_team", "approval_process", "record_keeping",
		"human_oversight", "testing_performed", "complaint_mechanism", "goal",
	}
	for _, f := range expected {
		if _, ok := view[f]; !ok {
			t.Errorf("gap analysis view missing field %q", f)
		}
	}
}

func TestView_UnknownStageFailsOpen(t *testing.T) {
	view := View(sampleResponse(), "nonexistent")
	if len(view) != 20 {
		t.Fatalf("unknown stage returned %d fields, want full set of 20", len(view))
	}
}

func TestValidate_AcceptsWellFormedResponse(t *testing.T) {
	if err := sampleResponse().Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidate_RejectsBadEnumAndEmptyLists(t *testing.T) {
	q := sampleResponse()
	q.Stage = "retired"
	if err := q.Validate(); err == nil {
		t.Error("expected error for invalid stage")
	}

	q = sampleResponse()
	q.Regions = nil
	if err := q.Validate(); err == nil {
		t.Error("expected error for empty regions")
	}

	q = sampleResponse()
	q.DataTypes = []string{}
	if err := q.Validate(); err == nil {
		t.Error("expected error for empty data_types")
	}

	q = sampleResponse()
	q.MainPurpose = ""
	if err := q.Validate(); err == nil {
		t.Error("expected error for missing main_purpose")
	}
}

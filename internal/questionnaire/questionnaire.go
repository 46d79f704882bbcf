package questionnaire

import (
	"fmt"
)

// Response is the validated questionnaire submitted for one assessment.
// It is created once per request and never mutated; pipeline stages work
// on filtered views derived from it.
type Response struct {
	// Organization and context
	OrganizationType string   `json:"organization_type"`
	Industry         string   `json:"industry"`
	Regions          []string `json:"regions"`
	CompanySize      string   `json:"company_size"`

	// AI system characteristics
	MainPurpose   string   `json:"main_purpose"`
	DataTypes     []string `json:"data_types"`
	Stage         string   `json:"stage"`
	DeveloperType string   `json:"developer_type"`
	Criticality   string   `json:"criticality"`

	// Governance maturity
	Policies        string `json:"policies"`
	DesignatedTeam  string `json:"designated_team"`
	ApprovalProcess string `json:"approval_process"`
	RecordKeeping   string `json:"record_keeping"`

	// Risk, impact and oversight
	RightsImpact       string `json:"rights_impact"`
	HumanOversight     string `json:"human_oversight"`
	TestingPerformed   string `json:"testing_performed"`
	ComplaintMechanism bool   `json:"complaint_mechanism"`

	// Outcome preferences
	Goal             string   `json:"goal"`
	OutputPreference string   `json:"output_preference"`
	TargetStandards  []string `json:"target_standards"`
}

var (
	organizationTypes = []string{"private_company", "public_body", "ngo", "academic", "other"}
	industries        = []string{"healthcare", "finance", "retail", "education", "government", "technology", "other"}
	regions           = []string{"eu", "us", "uk", "canada", "asia", "other"}
	companySizes      = []string{"startup", "sme", "enterprise"}
	dataTypes         = []string{"personal", "biometric", "health", "financial", "behavioral", "synthetic", "public", "other"}
	lifecycleStages   = []string{"design", "development", "testing", "deployment", "post-market monitoring"}
	developerTypes    = []string{"in_house", "vendor", "open_source", "hybrid"}
	criticalities     = []string{"low", "medium", "high"}
	designatedTeams   = []string{"none", "informal", "formal"}
	rightsImpacts     = []string{"none", "indirect", "direct"}
	oversightLevels   = []string{"none", "on_demand", "continuous"}
	goals             = []string{"understand_obligations", "prepare_audit", "improve_governance"}
	outputPreferences = []string{"summary", "detailed"}
)

// Validate checks closed-set fields and the non-empty list rule. It is the
// API boundary's job to call this; the pipeline itself never re-validates.
func (r *Response) Validate() error {
	checks := []struct {
		field   string
		value   string
		allowed []string
	}{
		{"organization_type", r.OrganizationType, organizationTypes},
		{"industry", r.Industry, industries},
		{"company_size", r.CompanySize, companySizes},
		{"stage", r.Stage, lifecycleStages},
		{"developer_type", r.DeveloperType, developerTypes},
		{"criticality", r.Criticality, criticalities},
		{"designated_team", r.DesignatedTeam, designatedTeams},
		{"rights_impact", r.RightsImpact, rightsImpacts},
		{"human_oversight", r.HumanOversight, oversightLevels},
		{"goal", r.Goal, goals},
		{"output_preference", r.OutputPreference, outputPreferences},
	}

	for _, c := range checks {
		if !contains(c.allowed, c.value) {
			return fmt.Errorf("invalid %s: %q", c.field, c.value)
		}
	}

	if r.MainPurpose == "" {
		return fmt.Errorf("main_purpose is required")
	}
	if len(r.Regions) == 0 {
		return fmt.Errorf("regions must not be empty")
	}
	for _, region := range r.Regions {
		if !contains(regions, region) {
			return fmt.Errorf("invalid region: %q", region)
		}
	}
	if len(r.DataTypes) == 0 {
		return fmt.Errorf("data_types must not be empty")
	}
	for _, dt := range r.DataTypes {
		if !contains(dataTypes, dt) {
			return fmt.Errorf("invalid data type: %q", dt)
		}
	}

	return nil
}

// OrganizationLabel is the human-readable label persisted with the
// assessment record.
func (r *Response) OrganizationLabel() string {
	return fmt.Sprintf("%s - %s", r.OrganizationType, r.Industry)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

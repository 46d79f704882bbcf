package questionnaire

// Pipeline stage names used to select a field projection.
const (
	StageClassification   = "classification"
	StageEURequirements   = "eu_requirements"
	StageNISTRequirements = "nist_requirements"
	StageGapAnalysis      = "gap_analysis"
)

// The EU and NIST projections are intentionally kept as two separate lists
// even though they differ only by "regions"; they are tuned independently.
var (
	euRequirementsFields = []string{
		"main_purpose", "data_types", "stage", "developer_type",
		"criticality", "rights_impact", "regions", "industry",
	}

	nistRequirementsFields = []string{
		"main_purpose", "data_types", "stage", "developer_type",
		"criticality", "rights_impact", "industry",
	}

	gapAnalysisFields = []string{
		"policies", "designated_team", "approval_process", "record_keeping",
		"human_oversight", "testing_performed", "complaint_mechanism", "goal",
	}
)

// View projects a response down to the field subset a pipeline stage is
// allowed to see. The requirements stages must not see governance maturity
// or outcome preferences; the gap stage must not see system characteristics.
// An unknown stage name fails open and returns the full field set, so a
// filter bug can degrade isolation but never block a stage.
func View(r *Response, stage string) map[string]interface{} {
	full := fullView(r)

	var fields []string
	switch stage {
	case StageClassification:
		return full
	case StageEURequirements:
		fields = euRequirementsFields
	case StageNISTRequirements:
		fields = nistRequirementsFields
	case StageGapAnalysis:
		fields = gapAnalysisFields
	default:
		return full
	}

	view := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		view[f] = full[f]
	}
	return view
}

func fullView(r *Response) map[string]interface{} {
	return map[string]interface{}{
		"organization_type":   r.OrganizationType,
		"industry":            r.Industry,
		"regions":             r.Regions,
		"company_size":        r.CompanySize,
		"main_purpose":        r.MainPurpose,
		"data_types":          r.DataTypes,
		"stage":               r.Stage,
		"developer_type":      r.DeveloperType,
		"criticality":         r.Criticality,
		"policies":            r.Policies,
		"designated_team":     r.DesignatedTeam,
		"approval_process":    r.ApprovalProcess,
		"record_keeping":      r.RecordKeeping,
		"rights_impact":       r.RightsImpact,
		"human_oversight":     r.HumanOversight,
		"testing_performed":   r.TestingPerformed,
		"complaint_mechanism": r.ComplaintMechanism,
		"goal":                r.Goal,
		"output_preference":   r.OutputPreference,
		"target_standards":    r.TargetStandards,
	}
}

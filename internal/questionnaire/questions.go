package questionnaire

// Question describes one questionnaire item for the UI collaborator.
type Question struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Section  string   `json:"section"`
	Type     string   `json:"type"`
	Options  []Option `json:"options,omitempty"`
	Required bool     `json:"required"`
	Multiple bool     `json:"multiple,omitempty"`
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func selectOptions(values []string, labels map[string]string) []Option {
	opts := make([]Option, 0, len(values))
	for _, v := range values {
		label, ok := labels[v]
		if !ok {
			label = v
		}
		opts = append(opts, Option{Value: v, Label: label})
	}
	return opts
}

// Questions returns the questionnaire definition served to the UI.
func Questions() []Question {
	return []Question{
		{Key: "organization_type", Label: "What type of organization are you?", Section: "Organization", Type: "select", Required: true,
			Options: selectOptions(organizationTypes, map[string]string{
				"private_company": "Private company", "public_body": "Public body",
				"ngo": "Non-profit / NGO", "academic": "Academic institution", "other": "Other",
			})},
		{Key: "industry", Label: "What is your primary industry?", Section: "Organization", Type: "select", Required: true,
			Options: selectOptions(industries, map[string]string{
				"healthcare": "Healthcare", "finance": "Finance & Banking", "retail": "Retail & E-commerce",
				"education": "Education", "government": "Government & Public Sector", "technology": "Technology", "other": "Other",
			})},
		{Key: "regions", Label: "In which regions does the system operate?", Section: "Organization", Type: "select", Required: true, Multiple: true,
			Options: selectOptions(regions, map[string]string{
				"eu": "European Union", "us": "United States", "uk": "United Kingdom",
				"canada": "Canada", "asia": "Asia Pacific", "other": "Other",
			})},
		{Key: "company_size", Label: "What is your organization size?", Section: "Organization", Type: "select", Required: true,
			Options: selectOptions(companySizes, map[string]string{
				"startup": "Startup (1-50 employees)", "sme": "SME (51-500 employees)", "enterprise": "Enterprise (500+ employees)",
			})},
		{Key: "main_purpose", Label: "What is the main purpose of the AI system?", Section: "AI System", Type: "text", Required: true},
		{Key: "data_types", Label: "What types of data does the system process?", Section: "AI System", Type: "select", Required: true, Multiple: true,
			Options: selectOptions(dataTypes, map[string]string{
				"personal": "Personal data", "biometric": "Biometric data", "health": "Health data",
				"financial": "Financial data", "behavioral": "Behavioral data", "synthetic": "Synthetic data",
				"public": "Public data", "other": "Other",
			})},
		{Key: "stage", Label: "What lifecycle stage is the system in?", Section: "AI System", Type: "select", Required: true,
			Options: selectOptions(lifecycleStages, map[string]string{
				"design": "Design", "development": "Development", "testing": "Testing",
				"deployment": "Deployment", "post-market monitoring": "Post-market monitoring",
			})},
		{Key: "developer_type", Label: "Who develops the system?", Section: "AI System", Type: "select", Required: true,
			Options: selectOptions(developerTypes, map[string]string{
				"in_house": "In-house team", "vendor": "External vendor", "open_source": "Open-source based", "hybrid": "Hybrid",
			})},
		{Key: "criticality", Label: "How critical are the system's decisions?", Section: "AI System", Type: "select", Required: true,
			Options: selectOptions(criticalities, map[string]string{"low": "Low", "medium": "Medium", "high": "High"})},
		{Key: "policies", Label: "Describe your current AI policies, if any.", Section: "Governance", Type: "text", Required: false},
		{Key: "designated_team", Label: "Do you have a designated AI governance team?", Section: "Governance", Type: "select", Required: true,
			Options: selectOptions(designatedTeams, map[string]string{
				"none": "No team", "informal": "Informal responsibility", "formal": "Formal team",
			})},
		{Key: "approval_process", Label: "Describe your AI approval process, if any.", Section: "Governance", Type: "text", Required: false},
		{Key: "record_keeping", Label: "Describe your record-keeping practices, if any.", Section: "Governance", Type: "text", Required: false},
		{Key: "rights_impact", Label: "Could the system affect fundamental rights of individuals?", Section: "Risk & Oversight", Type: "select", Required: true,
			Options: selectOptions(rightsImpacts, map[string]string{
				"none": "No impact", "indirect": "Indirect impact", "direct": "Direct impact",
			})},
		{Key: "human_oversight", Label: "What level of human oversight is in place?", Section: "Risk & Oversight", Type: "select", Required: true,
			Options: selectOptions(oversightLevels, map[string]string{
				"none": "None", "on_demand": "On demand", "continuous": "Continuous",
			})},
		{Key: "testing_performed", Label: "What testing has been performed on the system?", Section: "Risk & Oversight", Type: "text", Required: false},
		{Key: "complaint_mechanism", Label: "Is there a complaint mechanism for affected persons?", Section: "Risk & Oversight", Type: "boolean", Required: true},
		{Key: "goal", Label: "What is your main goal for this assessment?", Section: "Preferences", Type: "select", Required: true,
			Options: selectOptions(goals, map[string]string{
				"understand_obligations": "Understand obligations", "prepare_audit": "Prepare for an audit",
				"improve_governance": "Improve governance",
			})},
		{Key: "output_preference", Label: "How detailed should the output be?", Section: "Preferences", Type: "select", Required: true,
			Options: selectOptions(outputPreferences, map[string]string{"summary": "Summary", "detailed": "Detailed"})},
		{Key: "target_standards", Label: "Which standards do you target, if any?", Section: "Preferences", Type: "text", Required: false, Multiple: true},
	}
}

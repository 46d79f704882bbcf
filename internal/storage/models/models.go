package models

import "time"

// Assessment lifecycle states. Transitions run pending -> processing ->
// completed or failed; there are no other edges.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Assessment is one persisted assessment run. Questionnaire and FullResult
// are stored as JSON text columns; the scalar columns exist so status and
// listing queries never parse the blobs.
type Assessment struct {
	ID                    string
	CreatedAt             time.Time
	OrganizationName      string
	Questionnaire         string
	Status                string
	EUClassification      string
	ComplianceScore       int
	ProcessingTimeSeconds int
	ErrorMessage          string
	FullResult            string
}

// AssessmentSummary is the listing projection, without the JSON blobs.
type AssessmentSummary struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	OrganizationName string    `json:"organization_name"`
	Status           string    `json:"status"`
	EUClassification string    `json:"eu_classification,omitempty"`
	ComplianceScore  int       `json:"compliance_score"`
}

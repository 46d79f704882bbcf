package sqlite

import (
	"testing"
	"time"

	"github.com/complyforge/backend/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	if err := client.InitSchema(); err != nil {
		t.Fatalf("failed to init schema: %v", err)
	}
	return client
}

func newTestAssessment(id string) *models.Assessment {
	return &models.Assessment{
		ID:               id,
		CreatedAt:        time.Now().UTC(),
		OrganizationName: "private_company - finance",
		Questionnaire:    `{"main_purpose":"credit scoring"}`,
	}
}

func TestCreateAndGetAssessment(t *testing.T) {
	client := newTestClient(t)

	if err := client.CreateAssessment(newTestAssessment("a-1")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := client.GetAssessment("a-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil {
		t.Fatal("assessment not found")
	}
	if got.Status != models.StatusPending {
		t.Errorf("status = %s, want pending", got.Status)
	}
	if got.OrganizationName != "private_company - finance" {
		t.Errorf("organization = %s", got.OrganizationName)
	}
}

func TestGetAssessment_UnknownIDReturnsNil(t *testing.T) {
	client := newTestClient(t)

	got, err := client.GetAssessment("missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown id, got %+v", got)
	}
}

func TestStatusLifecycle(t *testing.T) {
	client := newTestClient(t)

	if err := client.CreateAssessment(newTestAssessment("a-2")); err != nil {
		t.Fatal(err)
	}

	if err := client.UpdateStatus("a-2", models.StatusProcessing, ""); err != nil {
		t.Fatalf("update to processing failed: %v", err)
	}

	if err := client.UpdateStatus("a-2", models.StatusFailed, "reasoning call failed after 3 attempts"); err != nil {
		t.Fatalf("update to failed failed: %v", err)
	}

	got, err := client.GetAssessment("a-2")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusFailed {
		t.Errorf("status = %s, want failed", got.Status)
	}
	if got.ErrorMessage == "" {
		t.Error("error message not persisted")
	}
}

func TestUpdateStatus_UnknownIDErrors(t *testing.T) {
	client := newTestClient(t)

	if err := client.UpdateStatus("missing", models.StatusProcessing, ""); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestSaveResult(t *testing.T) {
	client := newTestClient(t)

	if err := client.CreateAssessment(newTestAssessment("a-3")); err != nil {
		t.Fatal(err)
	}
	if err := client.UpdateStatus("a-3", models.StatusProcessing, ""); err != nil {
		t.Fatal(err)
	}

	err := client.SaveResult("a-3", "HIGH_RISK", 55, 120, `{"gap_analysis":{}}`)
	if err != nil {
		t.Fatalf("save result failed: %v", err)
	}

	got, err := client.GetAssessment("a-3")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusCompleted {
		t.Errorf("status = %s, want completed", got.Status)
	}
	if got.EUClassification != "HIGH_RISK" || got.ComplianceScore != 55 {
		t.Errorf("scalar columns not saved: %+v", got)
	}
	if got.FullResult == "" {
		t.Error("full result blob not saved")
	}
	if got.ErrorMessage != "" {
		t.Errorf("error message should be cleared, got %q", got.ErrorMessage)
	}
}

func TestListAssessments(t *testing.T) {
	client := newTestClient(t)

	first := newTestAssessment("a-old")
	first.CreatedAt = time.Now().Add(-time.Hour)
	if err := client.CreateAssessment(first); err != nil {
		t.Fatal(err)
	}
	if err := client.CreateAssessment(newTestAssessment("a-new")); err != nil {
		t.Fatal(err)
	}

	summaries, err := client.ListAssessments(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	if summaries[0].ID != "a-new" {
		t.Errorf("newest first expected, got %s", summaries[0].ID)
	}
}

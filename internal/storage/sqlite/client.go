package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/complyforge/backend/internal/storage/models"
	"github.com/complyforge/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS assessments (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		organization_name TEXT NOT NULL,
		questionnaire TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		eu_classification TEXT,
		compliance_score INTEGER,
		processing_time_seconds INTEGER,
		error_message TEXT,
		full_result TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_assessments_status ON assessments(status);
	CREATE INDEX IF NOT EXISTS idx_assessments_created ON assessments(created_at);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

// CreateAssessment inserts a new pending record.
func (c *Client) CreateAssessment(a *models.Assessment) error {
	query := `
		INSERT INTO assessments (id, created_at, organization_name, questionnaire, status)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(
		query,
		a.ID,
		a.CreatedAt.Unix(),
		a.OrganizationName,
		a.Questionnaire,
		models.StatusPending,
	)

	if err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}

	logger.Info("Assessment created",
		zap.String("assessment_id", a.ID),
		zap.String("organization", a.OrganizationName),
	)

	return nil
}

func (c *Client) GetAssessment(id string) (*models.Assessment, error) {
	query := `
		SELECT id, created_at, organization_name, questionnaire, status,
			COALESCE(eu_classification, ''), COALESCE(compliance_score, 0),
			COALESCE(processing_time_seconds, 0), COALESCE(error_message, ''),
			COALESCE(full_result, '')
		FROM assessments WHERE id = ?
	`

	var a models.Assessment
	var createdAt int64

	err := c.db.QueryRow(query, id).Scan(
		&a.ID,
		&createdAt,
		&a.OrganizationName,
		&a.Questionnaire,
		&a.Status,
		&a.EUClassification,
		&a.ComplianceScore,
		&a.ProcessingTimeSeconds,
		&a.ErrorMessage,
		&a.FullResult,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}

	a.CreatedAt = time.Unix(createdAt, 0)
	return &a, nil
}

// UpdateStatus moves the record to a new lifecycle state. errorMessage is
// only meaningful for the failed state and may be empty otherwise.
func (c *Client) UpdateStatus(id, status, errorMessage string) error {
	query := `UPDATE assessments SET status = ?, error_message = ? WHERE id = ?`

	res, err := c.db.Exec(query, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("assessment %s not found", id)
	}

	logger.Info("Assessment status updated",
		zap.String("assessment_id", id),
		zap.String("status", status),
	)

	return nil
}

// SaveResult stores the completed run in one statement so the status flip
// and the result blob land atomically.
func (c *Client) SaveResult(id, euClassification string, complianceScore, processingSeconds int, fullResult string) error {
	query := `
		UPDATE assessments
		SET status = ?, eu_classification = ?, compliance_score = ?,
			processing_time_seconds = ?, full_result = ?, error_message = NULL
		WHERE id = ?
	`

	res, err := c.db.Exec(
		query,
		models.StatusCompleted,
		euClassification,
		complianceScore,
		processingSeconds,
		fullResult,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("assessment %s not found", id)
	}

	logger.Info("Assessment result saved",
		zap.String("assessment_id", id),
		zap.String("classification", euClassification),
		zap.Int("compliance_score", complianceScore),
	)

	return nil
}

func (c *Client) ListAssessments(limit int) ([]models.AssessmentSummary, error) {
	query := `
		SELECT id, created_at, organization_name, status,
			COALESCE(eu_classification, ''), COALESCE(compliance_score, 0)
		FROM assessments
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := c.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()

	var summaries []models.AssessmentSummary
	for rows.Next() {
		var s models.AssessmentSummary
		var createdAt int64

		err := rows.Scan(&s.ID, &createdAt, &s.OrganizationName, &s.Status, &s.EUClassification, &s.ComplianceScore)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		s.CreatedAt = time.Unix(createdAt, 0)
		summaries = append(summaries, s)
	}

	return summaries, nil
}

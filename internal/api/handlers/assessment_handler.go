package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/complyforge/backend/internal/assessment"
	"github.com/complyforge/backend/internal/questionnaire"
	"github.com/complyforge/backend/internal/report"
	"github.com/complyforge/backend/internal/storage/models"
	"github.com/complyforge/backend/pkg/logger"
)

type AssessmentHandler struct {
	service *assessment.Service
}

func NewAssessmentHandler(service *assessment.Service) *AssessmentHandler {
	return &AssessmentHandler{service: service}
}

// estimatedRunSeconds is the typical wall-clock time for a full run,
// returned to clients so they can pace their polling.
const estimatedRunSeconds = 120

// CreateAssessment accepts a questionnaire and starts a background run.
// Responds 202 with the assessment id and status URL; clients poll status
// afterwards.
func (h *AssessmentHandler) CreateAssessment(c *fiber.Ctx) error {
	var q questionnaire.Response

	if err := c.BodyParser(&q); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	id, err := h.service.Start(c.Context(), &q)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"assessment_id":          id,
		"status":                 models.StatusPending,
		"status_url":             fmt.Sprintf("/api/v1/assessments/%s/status", id),
		"estimated_time_seconds": estimatedRunSeconds,
	})
}

func (h *AssessmentHandler) GetStatus(c *fiber.Ctx) error {
	id := c.Params("id")

	status, errorMessage, err := h.service.Status(c.Context(), id)
	if err != nil {
		logger.Error("Failed to get assessment status", zap.String("assessment_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get assessment status",
		})
	}
	if status == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assessment not found",
		})
	}

	resp := fiber.Map{
		"assessment_id": id,
		"status":        status,
	}
	if errorMessage != "" {
		resp["error_message"] = errorMessage
	}

	return c.JSON(resp)
}

// GetResult returns the full result of a completed assessment. A run that
// exists but has not completed yields 400 with its current status.
func (h *AssessmentHandler) GetResult(c *fiber.Ctx) error {
	id := c.Params("id")

	result, found, err := h.service.Result(c.Context(), id)
	if err != nil {
		var notCompleted *assessment.NotCompletedError
		if errors.As(err, &notCompleted) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Assessment not completed",
				"status": notCompleted.Status,
			})
		}
		logger.Error("Failed to get assessment result", zap.String("assessment_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get assessment result",
		})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assessment not found",
		})
	}

	return c.JSON(result)
}

// GetReport renders the completed assessment as a markdown download.
func (h *AssessmentHandler) GetReport(c *fiber.Ctx) error {
	id := c.Params("id")

	result, found, err := h.service.Result(c.Context(), id)
	if err != nil {
		var notCompleted *assessment.NotCompletedError
		if errors.As(err, &notCompleted) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Assessment not completed",
				"status": notCompleted.Status,
			})
		}
		logger.Error("Failed to get assessment for report", zap.String("assessment_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate report",
		})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assessment not found",
		})
	}

	c.Set("Content-Type", "text/markdown; charset=utf-8")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=compliance-report-%s.md", id))
	return c.SendString(report.Markdown(result))
}

func (h *AssessmentHandler) ListAssessments(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)

	summaries, err := h.service.List(limit)
	if err != nil {
		logger.Error("Failed to list assessments", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list assessments",
		})
	}

	if summaries == nil {
		summaries = []models.AssessmentSummary{}
	}

	return c.JSON(fiber.Map{
		"assessments": summaries,
	})
}

// GetQuestions serves the questionnaire definition the frontend renders.
func (h *AssessmentHandler) GetQuestions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"questions": questionnaire.Questions(),
	})
}

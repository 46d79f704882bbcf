package handlers

import (
	"context"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/complyforge/backend/internal/assessment"
	"github.com/complyforge/backend/internal/storage/models"
	"github.com/complyforge/backend/pkg/logger"
)

const statusPollInterval = 2 * time.Second

// WebSocketHandler streams assessment lifecycle updates so the frontend
// can show live progress without HTTP polling. The assessment id comes
// from the route parameter; the connection closes once the run reaches a
// terminal state.
type WebSocketHandler struct {
	service *assessment.Service
}

func NewWebSocketHandler(service *assessment.Service) *WebSocketHandler {
	return &WebSocketHandler{service: service}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	assessmentID := c.Params("id")

	logger.Info("WebSocket connection established", zap.String("assessment_id", assessmentID))

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed", zap.String("assessment_id", assessmentID))
	}()

	if assessmentID == "" {
		h.sendError(c, "Assessment id is required")
		return
	}

	err := h.streamStatus(c, assessmentID)
	if err != nil {
		logger.Error("Failed to stream status", zap.Error(err))
		h.sendError(c, "Failed to watch assessment")
	}
}

// streamStatus polls the lifecycle state and pushes every transition to
// the client until the run reaches a terminal state.
func (h *WebSocketHandler) streamStatus(c *websocket.Conn, assessmentID string) error {
	ctx := context.Background()

	lastStatus := ""
	for {
		status, errorMessage, err := h.service.Status(ctx, assessmentID)
		if err != nil {
			return err
		}
		if status == "" {
			h.sendError(c, "Assessment not found")
			return nil
		}

		if status != lastStatus {
			lastStatus = status
			if err := h.sendStatus(c, assessmentID, status, errorMessage); err != nil {
				return err
			}
		}

		if status == models.StatusCompleted || status == models.StatusFailed {
			return h.sendComplete(c, assessmentID, status)
		}

		time.Sleep(statusPollInterval)
	}
}

func (h *WebSocketHandler) sendStatus(c *websocket.Conn, assessmentID, status, errorMessage string) error {
	msg := map[string]interface{}{
		"type":          "status",
		"assessment_id": assessmentID,
		"status":        status,
	}
	if errorMessage != "" {
		msg["error_message"] = errorMessage
	}

	return c.WriteJSON(msg)
}

func (h *WebSocketHandler) sendComplete(c *websocket.Conn, assessmentID, status string) error {
	msg := map[string]interface{}{
		"type":          "complete",
		"assessment_id": assessmentID,
		"status":        status,
	}

	return c.WriteJSON(msg)
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, errorMsg string) {
	msg := map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	}

	c.WriteJSON(msg)
}

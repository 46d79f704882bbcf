package validation

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var (
	injectionPattern = regexp.MustCompile(`(?i)(<script|<iframe|javascript:|onerror=|onload=|onclick=)`)
)

type Config struct {
	MaxPurposeLength    int
	AllowedContentTypes []string
	Logger              *zap.Logger
}

// Middleware screens assessment submissions before they reach the handler:
// content type, free-text length and markup injection in the main_purpose
// field, which is the only free-form text that flows into prompts.
func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxPurposeLength == 0 {
		cfg.MaxPurposeLength = 5000
	}
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = []string{"application/json"}
	}

	return func(c *fiber.Ctx) error {
		if c.Method() == "POST" || c.Method() == "PUT" {
			contentType := c.Get("Content-Type")
			if contentType != "" {
				allowed := false
				for _, allowedType := range cfg.AllowedContentTypes {
					if strings.Contains(contentType, allowedType) {
						allowed = true
						break
					}
				}
				if !allowed {
					return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
						"error": "Unsupported content type",
					})
				}
			}
		}

		if c.Method() == "POST" && strings.Contains(c.Path(), "/api/v1/assessments") {
			var req map[string]interface{}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid JSON format",
				})
			}

			purpose, ok := req["main_purpose"].(string)
			if !ok || strings.TrimSpace(purpose) == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "main_purpose is required and must be a string",
				})
			}

			if len(purpose) > cfg.MaxPurposeLength {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "main_purpose exceeds maximum length",
				})
			}

			if injectionPattern.MatchString(purpose) {
				cfg.Logger.Warn("Potential injection attempt",
					zap.String("ip", c.IP()),
				)
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid main_purpose content",
				})
			}
		}

		return c.Next()
	}
}

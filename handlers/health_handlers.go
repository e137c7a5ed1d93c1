package handlers

import (
	"github.com/gofiber/fiber/v2"

	"videoquiz/ai-services/models"
)

// HealthCheck godoc
// @Summary Service health
// @Description Reports whether the speech model is loaded and the chat backend is reachable. Always returns 200; inspect status.
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func (h *ApplicationHandler) HealthCheck(c *fiber.Ctx) error {
	if h.Health == nil {
		return c.JSON(models.HealthResponse{
			Status:  models.StatusUnhealthy,
			Models:  map[string]string{"whisper": models.WhisperNotLoaded, "llm": models.LLMDisconnected},
			Message: models.HealthMessage,
		})
	}
	return c.JSON(h.Health.Check(c.UserContext()))
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"videoquiz/ai-services/models"
)

const llmProbePrompt = "Hello, are you working?"

// TestLLM godoc
// @Summary Chat model smoke test
// @Description Sends a fixed greeting to the chat model. Failures are reported in the body with status 200.
// @Tags diagnostics
// @Produce json
// @Success 200 {object} models.LLMTestResponse
// @Router /test-llm [post]
func (h *ApplicationHandler) TestLLM(c *fiber.Ctx) error {
	if h.LLM == nil {
		return c.JSON(models.LLMTestResponse{Status: "error", Error: "LLM client not initialized"})
	}
	reply, err := h.LLM.Chat(c.UserContext(), "", llmProbePrompt)
	if err != nil {
		h.Logger.Warnf("LLM smoke test failed: %v", err)
		return c.JSON(models.LLMTestResponse{Status: "error", Error: err.Error()})
	}
	return c.JSON(models.LLMTestResponse{Status: "success", Response: reply})
}

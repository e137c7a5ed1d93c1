package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"videoquiz/ai-services/internal/apperror"
	"videoquiz/ai-services/models"
	"videoquiz/ai-services/utils"
)

// GenerateQuestions godoc
// @Summary Generate quiz questions for a transcript segment
// @Description Always returns at least one question; when the model output is unusable a generic comprehension question is returned.
// @Tags questions
// @Accept json
// @Produce json
// @Param request body models.GenerateQuestionsRequest true "Segment text and position"
// @Success 200 {object} models.GenerateQuestionsResponse
// @Failure 400 {object} utils.ErrorResponse "Invalid request body"
// @Failure 500 {object} utils.ErrorResponse "Chat model unavailable or failed"
// @Router /generate-questions [post]
func (h *ApplicationHandler) GenerateQuestions(c *fiber.Ctx) error {
	payload := new(models.GenerateQuestionsRequest)
	if err := c.BodyParser(payload); err != nil {
		h.Logger.Errorf("Error parsing generate-questions payload: %v", err)
		return utils.RespondWithAppError(c, apperror.Input(fmt.Sprintf("Invalid request body: %v", err)))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithValidationError(c, err)
	}

	batch, err := h.Questions.Generate(c.UserContext(), payload.Text, payload.SegmentNumber, payload.TotalSegments)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return c.JSON(models.GenerateQuestionsResponse{Questions: batch.Questions})
}

// GenerateQuiz godoc
// @Summary Generate questions for a whole transcript
// @Description Groups transcript segments into fixed windows (default 300 seconds) and generates questions for each window. A window whose generation fails has no questions.
// @Tags questions
// @Accept json
// @Produce json
// @Param request body models.GenerateQuizRequest true "Transcript segments"
// @Success 200 {object} models.GenerateQuizResponse
// @Failure 400 {object} utils.ErrorResponse "Invalid request body"
// @Router /generate-quiz [post]
func (h *ApplicationHandler) GenerateQuiz(c *fiber.Ctx) error {
	payload := new(models.GenerateQuizRequest)
	if err := c.BodyParser(payload); err != nil {
		h.Logger.Errorf("Error parsing generate-quiz payload: %v", err)
		return utils.RespondWithAppError(c, apperror.Input(fmt.Sprintf("Invalid request body: %v", err)))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithValidationError(c, err)
	}

	windows, err := h.Quiz.GenerateQuiz(c.UserContext(), payload.Segments, payload.Window())
	if err != nil {
		return utils.RespondWithAppError(c, apperror.Processing("Quiz generation failed", err))
	}
	return c.JSON(models.GenerateQuizResponse{Windows: windows})
}

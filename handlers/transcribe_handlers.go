package handlers

import (
	"github.com/gofiber/fiber/v2"

	"videoquiz/ai-services/internal/apperror"
	"videoquiz/ai-services/internal/speech"
	"videoquiz/ai-services/utils"
)

// Transcribe godoc
// @Summary Transcribe an audio or video file
// @Description Accepts .mp4, .wav, .mp3, .m4a, .avi or .mov uploads and returns text, timestamped segments and the detected language.
// @Tags transcription
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Media file"
// @Param language query string false "Language hint, auto-detected when empty"
// @Param task query string false "transcribe (default) or translate"
// @Success 200 {object} models.TranscriptionResult
// @Failure 400 {object} utils.ErrorResponse "Unsupported file format or task"
// @Failure 500 {object} utils.ErrorResponse "Model not loaded or transcription failed"
// @Router /transcribe [post]
func (h *ApplicationHandler) Transcribe(c *fiber.Ctx) error {
	// A task given in the query string is rejected before the upload is read.
	task := c.Query("task")
	if task != "" {
		if _, ok := speech.ParseTask(task); !ok {
			return utils.RespondWithAppError(c, apperror.Input("Task must be either 'transcribe' or 'translate'"))
		}
	}

	file, err := c.FormFile("file")
	if err != nil {
		h.Logger.Warnf("Transcribe request without file: %v", err)
		return utils.RespondWithAppError(c, apperror.Input("A file upload in field 'file' is required"))
	}
	if task == "" {
		task = c.FormValue("task")
	}
	language := c.Query("language")
	if language == "" {
		language = c.FormValue("language")
	}

	if !speech.IsSupportedFile(file.Filename) {
		return utils.RespondWithAppError(c, apperror.Input("Unsupported file format"))
	}

	body, err := file.Open()
	if err != nil {
		h.Logger.Errorf("Error opening uploaded file %s: %v", file.Filename, err)
		return utils.RespondWithAppError(c, apperror.Processing("Transcription failed", err))
	}
	defer body.Close()

	result, err := h.Transcriber.Transcribe(c.UserContext(), speech.Request{
		Filename: file.Filename,
		Body:     body,
		Language: language,
		Task:     task,
	})
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return c.JSON(result)
}

package health

import (
	"context"
	"fmt"
	"time"

	"videoquiz/ai-services/models"
)

// SpeechEngine reports whether the transcription model is loaded.
type SpeechEngine interface {
	Loaded() bool
}

// LLMBackend reports whether the chat backend answers.
type LLMBackend interface {
	Ping(ctx context.Context) error
}

// Checker probes the transcription engine and chat backend independently.
type Checker struct {
	speech  SpeechEngine
	llm     LLMBackend
	timeout time.Duration
}

// NewChecker creates a Checker. Either dependency may be nil and is then
// reported as down. timeout bounds the backend probe; zero means no bound.
func NewChecker(speech SpeechEngine, llm LLMBackend, timeout time.Duration) *Checker {
	return &Checker{speech: speech, llm: llm, timeout: timeout}
}

// Check never fails; problems downgrade the status to unhealthy.
func (c *Checker) Check(ctx context.Context) models.HealthResponse {
	whisper := models.WhisperNotLoaded
	if c.speech != nil && c.speech.Loaded() {
		whisper = models.WhisperLoaded
	}

	llm := models.LLMDisconnected
	if c.llm != nil && c.ping(ctx) == nil {
		llm = models.LLMConnected
	}

	status := models.StatusUnhealthy
	if whisper == models.WhisperLoaded && llm == models.LLMConnected {
		status = models.StatusHealthy
	}

	return models.HealthResponse{
		Status: status,
		Models: map[string]string{
			"whisper": whisper,
			"llm":     llm,
		},
		Message: models.HealthMessage,
	}
}

func (c *Checker) ping(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("llm probe panicked: %v", r)
		}
	}()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.llm.Ping(ctx)
}

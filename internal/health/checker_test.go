package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"videoquiz/ai-services/models"
)

type stubSpeech bool

func (s stubSpeech) Loaded() bool { return bool(s) }

type stubLLM struct{ err error }

func (s stubLLM) Ping(context.Context) error { return s.err }

type slowLLM struct{}

func (slowLLM) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

type panickyLLM struct{}

func (panickyLLM) Ping(context.Context) error { panic("client bug") }

func TestCheck(t *testing.T) {
	down := errors.New("connection refused")
	tests := []struct {
		name    string
		speech  SpeechEngine
		llm     LLMBackend
		status  string
		whisper string
		llmWant string
	}{
		{"both healthy", stubSpeech(true), stubLLM{}, models.StatusHealthy, models.WhisperLoaded, models.LLMConnected},
		{"speech unloaded", stubSpeech(false), stubLLM{}, models.StatusUnhealthy, models.WhisperNotLoaded, models.LLMConnected},
		{"speech unloaded and llm down", stubSpeech(false), stubLLM{err: down}, models.StatusUnhealthy, models.WhisperNotLoaded, models.LLMDisconnected},
		{"llm down", stubSpeech(true), stubLLM{err: down}, models.StatusUnhealthy, models.WhisperLoaded, models.LLMDisconnected},
		{"nothing wired", nil, nil, models.StatusUnhealthy, models.WhisperNotLoaded, models.LLMDisconnected},
		{"llm panics", stubSpeech(true), panickyLLM{}, models.StatusUnhealthy, models.WhisperLoaded, models.LLMDisconnected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewChecker(tt.speech, tt.llm, 0).Check(context.Background())
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.whisper, got.Models["whisper"])
			assert.Equal(t, tt.llmWant, got.Models["llm"])
			assert.Equal(t, "AI services are running", got.Message)
		})
	}
}

func TestCheckBoundsSlowBackend(t *testing.T) {
	start := time.Now()
	got := NewChecker(stubSpeech(true), slowLLM{}, 20*time.Millisecond).Check(context.Background())

	assert.Equal(t, models.LLMDisconnected, got.Models["llm"])
	assert.Less(t, time.Since(start), time.Second)
}

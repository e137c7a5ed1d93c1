package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	ollamasdk "github.com/rozoomcool/go-ollama-sdk"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "mistral:7b"

	tracerName = "videoquiz/ai-services/internal/aiclient"
)

// Chatter is the subset of the Ollama SDK client used for completions.
type Chatter interface {
	Chat(model string, messages []ollamasdk.ChatMessage) (string, error)
}

// AIClient talks to a local Ollama server. Completions go through the Ollama
// SDK; model listing and pulling use the REST API directly.
type AIClient struct {
	chatter    Chatter
	baseURL    string
	model      string
	httpClient *http.Client
	log        *logrus.Logger
	tracer     trace.Tracer
}

// NewAIClient creates an AIClient for the given server and model.
func NewAIClient(baseURL, model string, log *logrus.Logger) *AIClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &AIClient{
		chatter:    ollamasdk.NewClient(baseURL),
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{},
		log:        log,
		tracer:     otel.Tracer(tracerName),
	}
}

// WithChatter replaces the completion backend. Used by tests.
func (c *AIClient) WithChatter(chatter Chatter) *AIClient {
	c.chatter = chatter
	return c
}

// Model returns the configured model name.
func (c *AIClient) Model() string {
	return c.model
}

// Close releases idle HTTP connections.
func (c *AIClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Chat sends an optional system message and a user message to the configured
// model. The SDK call is not cancellable once sent.
func (c *AIClient) Chat(ctx context.Context, system, user string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	_, span := c.tracer.Start(ctx, "ollama.chat", trace.WithAttributes(
		attribute.String("llm.model", c.model),
		attribute.Int("llm.prompt_chars", len(user)),
	))
	defer span.End()

	messages := make([]ollamasdk.ChatMessage, 0, 2)
	if system != "" {
		messages = append(messages, ollamasdk.ChatMessage{Role: "system", Content: system})
	}
	messages = append(messages, ollamasdk.ChatMessage{Role: "user", Content: user})

	c.log.Debugf("AIClient: calling model %s", c.model)
	text, err := c.chatter.Chat(c.model, messages)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat failed")
		return "", fmt.Errorf("ollama chat with %s: %w", c.model, err)
	}
	span.SetAttributes(attribute.Int("llm.reply_chars", len(text)))
	return text, nil
}

type tagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

// ListModels returns the names of the models available on the server.
func (c *AIClient) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama /api/tags returned status %d", resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decoding ollama model list: %w", err)
	}
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		names = append(names, name)
	}
	return names, nil
}

// Ping reports whether the server answers the model list call.
func (c *AIClient) Ping(ctx context.Context) error {
	_, err := c.ListModels(ctx)
	return err
}

// Pull downloads model on the server and waits for it to finish.
func (c *AIClient) Pull(ctx context.Context, model string) error {
	payload, err := json.Marshal(map[string]any{"name": model, "stream": false})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/pull", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to trigger pull: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading pull response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pull of %s failed with status %d: %s", model, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var status struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &status); err == nil && status.Error != "" {
		return fmt.Errorf("pull of %s failed: %s", model, status.Error)
	}
	return nil
}

// EnsureModel pulls the configured model unless the server already has it.
func (c *AIClient) EnsureModel(ctx context.Context) error {
	c.log.Infof("Checking LLM model: %s", c.model)
	names, err := c.ListModels(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if name == c.model || name == c.model+":latest" {
			c.log.Infof("LLM model %s ready", c.model)
			return nil
		}
	}

	c.log.WithField("available", names).Infof("Pulling model %s", c.model)
	if err := c.Pull(ctx, c.model); err != nil {
		return err
	}
	c.log.Infof("LLM model %s pulled", c.model)
	return nil
}

package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"videoquiz/ai-services/models"
)

const (
	defaultWhisperURL   = "http://localhost:9000"
	defaultWhisperModel = "base"
)

// WhisperEngine is an Engine backed by a Whisper HTTP sidecar. The model size
// is chosen once and loaded with Load before the engine accepts work.
type WhisperEngine struct {
	url    string
	model  string
	client *http.Client
	loaded atomic.Bool
}

// NewWhisperEngine creates an engine for the sidecar at baseURL using model size model.
func NewWhisperEngine(baseURL, model string) *WhisperEngine {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultWhisperURL
	}
	if model == "" {
		model = defaultWhisperModel
	}
	return &WhisperEngine{url: baseURL, model: model, client: &http.Client{}}
}

// Name returns the model size identifier.
func (e *WhisperEngine) Name() string { return e.model }

// Loaded reports whether Load has succeeded.
func (e *WhisperEngine) Loaded() bool { return e.loaded.Load() }

// Load asks the sidecar to load the model.
func (e *WhisperEngine) Load(ctx context.Context) error {
	form := strings.NewReader(url.Values{"model": {e.model}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url+"/load", form)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("whisper load request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("whisper load of %q failed (status %d): %s", e.model, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	e.loaded.Store(true)
	return nil
}

// Transcribe streams the audio file to the sidecar and decodes its result.
func (e *WhisperEngine) Transcribe(ctx context.Context, audioPath string, opts DecodeOptions) (*models.TranscriptionResult, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeForm(writer, f, filepath.Base(audioPath), e.model, opts))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url+"/transcribe", pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("whisper request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("whisper error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result models.TranscriptionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode whisper response: %w", err)
	}
	return &result, nil
}

func writeForm(w *multipart.Writer, audio io.Reader, filename, model string, opts DecodeOptions) error {
	part, err := w.CreateFormFile("audio", filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return fmt.Errorf("write audio data: %w", err)
	}

	fields := opts.FormFields()
	fields["model"] = model
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return err
		}
	}
	return w.Close()
}

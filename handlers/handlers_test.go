package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videoquiz/ai-services/internal/apperror"
	"videoquiz/ai-services/internal/speech"
	"videoquiz/ai-services/models"
	"videoquiz/ai-services/utils"
)

type fakeTranscriber struct {
	calls   int
	got     speech.Request
	content string
	result  *models.TranscriptionResult
	err     error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, req speech.Request) (*models.TranscriptionResult, error) {
	f.calls++
	f.got = req
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		f.content = string(b)
	}
	return f.result, f.err
}

type fakeQuestions struct {
	text           string
	segment, total int
	batch          *models.QuestionBatch
	err            error
}

func (f *fakeQuestions) Generate(_ context.Context, text string, segmentNumber, totalSegments int) (*models.QuestionBatch, error) {
	f.text, f.segment, f.total = text, segmentNumber, totalSegments
	return f.batch, f.err
}

type fakeQuiz struct {
	segments []models.QuizSegmentInput
	window   time.Duration
	windows  []models.QuizWindow
	err      error
}

func (f *fakeQuiz) GenerateQuiz(_ context.Context, segments []models.QuizSegmentInput, window time.Duration) ([]models.QuizWindow, error) {
	f.segments, f.window = segments, window
	return f.windows, f.err
}

type fakeHealth struct{ res models.HealthResponse }

func (f fakeHealth) Check(context.Context) models.HealthResponse { return f.res }

type fakeLLM struct {
	system, user string
	reply        string
	err          error
}

func (f *fakeLLM) Chat(_ context.Context, system, user string) (string, error) {
	f.system, f.user = system, user
	return f.reply, f.err
}

func newTestApp(h *ApplicationHandler) *fiber.App {
	if h.Logger == nil {
		h.Logger = logrus.New()
		h.Logger.SetOutput(io.Discard)
	}
	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler(h.Logger)})
	h.Register(app)
	return app
}

func multipartRequest(t *testing.T, url, filename, content string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, url string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthCheck(t *testing.T) {
	want := models.HealthResponse{
		Status:  models.StatusUnhealthy,
		Models:  map[string]string{"whisper": models.WhisperLoaded, "llm": models.LLMDisconnected},
		Message: models.HealthMessage,
	}
	app := newTestApp(&ApplicationHandler{Health: fakeHealth{res: want}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, want, decode[models.HealthResponse](t, resp))
}

func TestHealthCheckWithoutChecker(t *testing.T) {
	app := newTestApp(&ApplicationHandler{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode[models.HealthResponse](t, resp)
	assert.Equal(t, models.StatusUnhealthy, body.Status)
	assert.Equal(t, models.WhisperNotLoaded, body.Models["whisper"])
}

func TestTranscribeSuccess(t *testing.T) {
	tr := &fakeTranscriber{result: &models.TranscriptionResult{
		Text:     "hello world",
		Segments: []models.TranscriptSegment{{Start: 0, End: 1.5, Text: "hello world"}},
		Language: "en",
	}}
	app := newTestApp(&ApplicationHandler{Transcriber: tr})

	req := multipartRequest(t, "/transcribe?language=en", "clip.MP4", "media-bytes", map[string]string{"task": "translate"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[models.TranscriptionResult](t, resp)
	assert.Equal(t, "hello world", body.Text)
	assert.Equal(t, "en", body.Language)
	require.Len(t, body.Segments, 1)

	assert.Equal(t, 1, tr.calls)
	assert.Equal(t, "clip.MP4", tr.got.Filename)
	assert.Equal(t, "en", tr.got.Language)
	assert.Equal(t, "translate", tr.got.Task)
	assert.Equal(t, "media-bytes", tr.content)
}

func TestTranscribeRejectsUnsupportedFormat(t *testing.T) {
	tr := &fakeTranscriber{}
	app := newTestApp(&ApplicationHandler{Transcriber: tr})

	resp, err := app.Test(multipartRequest(t, "/transcribe", "notes.txt", "text", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decode[utils.ErrorResponse](t, resp)
	assert.Equal(t, string(apperror.KindInput), body.Code)
	assert.Equal(t, "Unsupported file format", body.Message)
	assert.Zero(t, tr.calls)
}

func TestTranscribeRejectsUnknownQueryTask(t *testing.T) {
	tr := &fakeTranscriber{}
	app := newTestApp(&ApplicationHandler{Transcriber: tr})

	resp, err := app.Test(multipartRequest(t, "/transcribe?task=summarize", "clip.wav", "x", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(apperror.KindInput), decode[utils.ErrorResponse](t, resp).Code)
	assert.Zero(t, tr.calls)
}

func TestTranscribeMissingFile(t *testing.T) {
	app := newTestApp(&ApplicationHandler{Transcriber: &fakeTranscriber{}})

	resp, err := app.Test(multipartRequest(t, "/transcribe", "", "", map[string]string{"language": "en"}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestTranscribeMapsServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"model not loaded", apperror.Unavailable("Whisper model not loaded"), fiber.StatusInternalServerError, string(apperror.KindUnavailable)},
		{"engine failure", apperror.Processing("Transcription failed", errors.New("decoder crashed")), fiber.StatusInternalServerError, string(apperror.KindProcessing)},
		{"input error from service", apperror.Input("Task must be either 'transcribe' or 'translate'"), fiber.StatusBadRequest, string(apperror.KindInput)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&ApplicationHandler{Transcriber: &fakeTranscriber{err: tt.err}})

			resp, err := app.Test(multipartRequest(t, "/transcribe", "a.mp3", "x", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decode[utils.ErrorResponse](t, resp)
			assert.Equal(t, tt.code, body.Code)
			appErr, ok := apperror.As(tt.err)
			require.True(t, ok)
			assert.Equal(t, appErr.Message, body.Message)
		})
	}
}

func sampleQuestion() models.QuizQuestion {
	return models.QuizQuestion{
		Question:      "What is discussed?",
		Options:       []string{"A", "B", "C", "D"},
		CorrectAnswer: 2,
		Difficulty:    models.DifficultyMedium,
		Topic:         "Overview",
	}
}

func TestGenerateQuestions(t *testing.T) {
	q := &fakeQuestions{batch: &models.QuestionBatch{Questions: []models.QuizQuestion{sampleQuestion()}}}
	app := newTestApp(&ApplicationHandler{Questions: q})

	resp, err := app.Test(jsonRequest(t, "/generate-questions", map[string]any{
		"text":           "Photosynthesis converts light into energy.",
		"segment_number": 2,
		"total_segments": 5,
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[models.GenerateQuestionsResponse](t, resp)
	require.Len(t, body.Questions, 1)
	assert.Equal(t, sampleQuestion(), body.Questions[0])
	assert.Equal(t, "Photosynthesis converts light into energy.", q.text)
	assert.Equal(t, 2, q.segment)
	assert.Equal(t, 5, q.total)
}

func TestGenerateQuestionsValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"text": `},
		{"segment number zero", `{"text": "t", "segment_number": 0, "total_segments": 1}`},
		{"segment past total", `{"text": "t", "segment_number": 4, "total_segments": 3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &fakeQuestions{}
			app := newTestApp(&ApplicationHandler{Questions: q})

			req := httptest.NewRequest(http.MethodPost, "/generate-questions", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, string(apperror.KindInput), decode[utils.ErrorResponse](t, resp).Code)
			assert.Empty(t, q.text)
		})
	}
}

func TestGenerateQuestionsUnavailable(t *testing.T) {
	q := &fakeQuestions{err: apperror.Unavailable("LLM client not initialized")}
	app := newTestApp(&ApplicationHandler{Questions: q})

	resp, err := app.Test(jsonRequest(t, "/generate-questions", map[string]any{
		"text": "t", "segment_number": 1, "total_segments": 1,
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body := decode[utils.ErrorResponse](t, resp)
	assert.Equal(t, string(apperror.KindUnavailable), body.Code)
	assert.Equal(t, "LLM client not initialized", body.Message)
}

func TestGenerateQuiz(t *testing.T) {
	window := models.QuizWindow{
		ID:        uuid.New(),
		StartTime: 0,
		EndTime:   120,
		Text:      "intro",
		Questions: []models.IdentifiedQuestion{{ID: uuid.New(), QuizQuestion: sampleQuestion()}},
	}
	qz := &fakeQuiz{windows: []models.QuizWindow{window}}
	app := newTestApp(&ApplicationHandler{Quiz: qz})

	resp, err := app.Test(jsonRequest(t, "/generate-quiz", map[string]any{
		"segments":       []map[string]any{{"start": 0, "end": 120, "text": "intro"}},
		"window_seconds": 120,
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[models.GenerateQuizResponse](t, resp)
	require.Len(t, body.Windows, 1)
	assert.Equal(t, window.ID, body.Windows[0].ID)
	assert.Equal(t, 2*time.Minute, qz.window)
	require.Len(t, qz.segments, 1)
	assert.Equal(t, "intro", qz.segments[0].Text)
}

func TestGenerateQuizDefaultsWindow(t *testing.T) {
	qz := &fakeQuiz{}
	app := newTestApp(&ApplicationHandler{Quiz: qz})

	resp, err := app.Test(jsonRequest(t, "/generate-quiz", map[string]any{
		"segments": []map[string]any{{"start": 0, "end": 3, "text": "hi"}},
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Zero(t, qz.window)
}

func TestGenerateQuizRejectsEmptyTranscript(t *testing.T) {
	qz := &fakeQuiz{}
	app := newTestApp(&ApplicationHandler{Quiz: qz})

	resp, err := app.Test(jsonRequest(t, "/generate-quiz", map[string]any{"segments": []any{}}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, qz.segments)
}

func TestGenerateQuizCancelled(t *testing.T) {
	app := newTestApp(&ApplicationHandler{Quiz: &fakeQuiz{err: context.Canceled}})

	resp, err := app.Test(jsonRequest(t, "/generate-quiz", map[string]any{
		"segments": []map[string]any{{"start": 0, "end": 3, "text": "hi"}},
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, string(apperror.KindProcessing), decode[utils.ErrorResponse](t, resp).Code)
}

func TestTestLLM(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		llm := &fakeLLM{reply: "Yes, I am working."}
		app := newTestApp(&ApplicationHandler{LLM: llm})

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/test-llm", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, models.LLMTestResponse{Status: "success", Response: "Yes, I am working."}, decode[models.LLMTestResponse](t, resp))
		assert.Equal(t, "Hello, are you working?", llm.user)
		assert.Empty(t, llm.system)
	})

	t.Run("chat failure is reported in the body", func(t *testing.T) {
		app := newTestApp(&ApplicationHandler{LLM: &fakeLLM{err: errors.New("connection refused")}})

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/test-llm", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, models.LLMTestResponse{Status: "error", Error: "connection refused"}, decode[models.LLMTestResponse](t, resp))
	})

	t.Run("no client", func(t *testing.T) {
		app := newTestApp(&ApplicationHandler{})

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/test-llm", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "error", decode[models.LLMTestResponse](t, resp).Status)
	})
}

package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"videoquiz/ai-services/internal/speech"
	"videoquiz/ai-services/models"
)

// Transcriber converts an uploaded media stream into timestamped text.
type Transcriber interface {
	Transcribe(ctx context.Context, req speech.Request) (*models.TranscriptionResult, error)
}

// QuestionGenerator produces a non-empty question batch for one segment.
type QuestionGenerator interface {
	Generate(ctx context.Context, text string, segmentNumber, totalSegments int) (*models.QuestionBatch, error)
}

// QuizGenerator produces questions for a whole transcript, window by window.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, segments []models.QuizSegmentInput, window time.Duration) ([]models.QuizWindow, error)
}

// HealthChecker reports component health. It never fails.
type HealthChecker interface {
	Check(ctx context.Context) models.HealthResponse
}

// LLMClient sends a raw exchange to the chat model.
type LLMClient interface {
	Chat(ctx context.Context, system, user string) (string, error)
}

// ApplicationHandler holds the services the HTTP handlers delegate to. Services
// are built once at startup and shared by all requests.
type ApplicationHandler struct {
	Transcriber Transcriber
	Questions   QuestionGenerator
	Quiz        QuizGenerator
	Health      HealthChecker
	LLM         LLMClient
	Logger      *logrus.Logger
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(transcriber Transcriber, questions QuestionGenerator, quiz QuizGenerator,
	health HealthChecker, llm LLMClient, logger *logrus.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		Transcriber: transcriber,
		Questions:   questions,
		Quiz:        quiz,
		Health:      health,
		LLM:         llm,
		Logger:      logger,
	}
}

var validate = validator.New()

// Register mounts every route on r.
func (h *ApplicationHandler) Register(r fiber.Router) {
	r.Get("/health", h.HealthCheck)
	r.Post("/transcribe", h.Transcribe)
	r.Post("/generate-questions", h.GenerateQuestions)
	r.Post("/generate-quiz", h.GenerateQuiz)
	r.Post("/test-llm", h.TestLLM)
}

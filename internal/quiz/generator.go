package quiz

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"videoquiz/ai-services/internal/apperror"
	"videoquiz/ai-services/models"
)

const tracerName = "videoquiz/ai-services/internal/quiz"

// ChatClient sends one system+user exchange to the chat model and returns the
// reply text.
type ChatClient interface {
	Chat(ctx context.Context, system, user string) (string, error)
}

// Generator turns segment text into a QuestionBatch. It never returns an empty
// batch: unusable model output is replaced by the Fallback question.
type Generator struct {
	chat     ChatClient
	observer Observer
	log      *logrus.Logger
	tracer   trace.Tracer
}

// NewGenerator wires a Generator. observer may be nil.
func NewGenerator(chat ChatClient, observer Observer, log *logrus.Logger) *Generator {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Generator{
		chat:     chat,
		observer: observer,
		log:      log,
		tracer:   otel.Tracer(tracerName),
	}
}

// Generate builds the prompt, calls the chat model and validates its reply.
// Only an unavailable model or a failed chat call produce an error.
func (g *Generator) Generate(ctx context.Context, text string, segmentNumber, totalSegments int) (*models.QuestionBatch, error) {
	ctx, span := g.tracer.Start(ctx, "quiz.generate", trace.WithAttributes(
		attribute.Int("quiz.segment_number", segmentNumber),
		attribute.Int("quiz.total_segments", totalSegments),
	))
	defer span.End()

	if g.chat == nil {
		span.SetStatus(codes.Error, "chat client not initialized")
		return nil, apperror.Unavailable("LLM client not initialized")
	}

	fields := logrus.Fields{"segment_number": segmentNumber, "total_segments": totalSegments}
	g.log.WithFields(fields).Info("Generating questions")

	reply, err := g.chat.Chat(ctx, SystemPrompt, BuildPrompt(text, segmentNumber, totalSegments))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat call failed")
		g.log.WithFields(fields).WithError(err).Error("Question generation failed")
		return nil, apperror.Processing("Question generation failed", err)
	}
	g.log.WithFields(fields).Debugf("LLM response length: %d characters", len(reply))

	batch := &models.QuestionBatch{SegmentNumber: segmentNumber, TotalSegments: totalSegments}
	outcome := Outcome{SegmentNumber: segmentNumber}

	extraction, err := Extract(reply)
	if err != nil {
		outcome.ExtractErr = err
		g.log.WithFields(fields).WithFields(logrus.Fields{
			"failure": FailureKind(err),
			"reply":   excerpt(reply, 200),
		}).WithError(err).Warn("Could not parse model reply, using fallback question")
	} else {
		outcome.Accepted = len(extraction.Questions)
		outcome.Drops = extraction.Drops
		batch.Questions = extraction.Questions
		for _, d := range extraction.Drops {
			g.log.WithFields(fields).WithFields(logrus.Fields{
				"index":  d.Index,
				"reason": d.Reason,
				"detail": d.Detail,
			}).Debug("Dropped invalid question")
		}
	}

	if len(batch.Questions) == 0 {
		batch.Questions = []models.QuizQuestion{Fallback(segmentNumber)}
		batch.Fallback = true
		outcome.Fallback = true
	}

	span.SetAttributes(
		attribute.Int("quiz.accepted", outcome.Accepted),
		attribute.Int("quiz.dropped", len(outcome.Drops)),
		attribute.Bool("quiz.fallback", batch.Fallback),
	)
	g.observer.ObserveGeneration(ctx, outcome)
	g.log.WithFields(fields).WithFields(logrus.Fields{
		"questions": len(batch.Questions),
		"dropped":   len(outcome.Drops),
		"fallback":  batch.Fallback,
	}).Info("Questions generated")

	return batch, nil
}

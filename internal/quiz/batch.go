package quiz

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"videoquiz/ai-services/internal/worker"
	"videoquiz/ai-services/models"
)

// SegmentGenerator produces questions for one segment of text.
type SegmentGenerator interface {
	Generate(ctx context.Context, text string, segmentNumber, totalSegments int) (*models.QuestionBatch, error)
}

// JobSubmitter queues work on a worker pool.
type JobSubmitter interface {
	Submit(ctx context.Context, job worker.Job) error
}

// BatchGenerator fans question generation for a whole transcript out over a
// worker pool, one job per window.
type BatchGenerator struct {
	generator SegmentGenerator
	pool      JobSubmitter
	window    time.Duration
	log       *logrus.Logger
}

// NewBatchGenerator wires a BatchGenerator. window is the default window length.
func NewBatchGenerator(generator SegmentGenerator, pool JobSubmitter, window time.Duration, log *logrus.Logger) *BatchGenerator {
	return &BatchGenerator{generator: generator, pool: pool, window: window, log: log}
}

type windowJob struct {
	ctx       context.Context
	generator SegmentGenerator
	window    *models.QuizWindow
	number    int
	total     int
	done      chan<- windowResult
}

type windowResult struct {
	number int
	err    error
}

func (j *windowJob) ID() string { return j.window.ID.String() }

func (j *windowJob) Execute() (err error) {
	defer func() { j.done <- windowResult{number: j.number, err: err} }()

	batch, err := j.generator.Generate(j.ctx, j.window.Text, j.number, j.total)
	if err != nil {
		return fmt.Errorf("window %d/%d: %w", j.number, j.total, err)
	}
	questions := make([]models.IdentifiedQuestion, 0, len(batch.Questions))
	for _, q := range batch.Questions {
		questions = append(questions, models.IdentifiedQuestion{ID: uuid.New(), QuizQuestion: q})
	}
	j.window.Questions = questions
	return nil
}

// GenerateQuiz windows the transcript and generates questions for every window.
// A window whose generation fails keeps an empty question list. window <= 0
// selects the generator's default.
func (b *BatchGenerator) GenerateQuiz(ctx context.Context, segments []models.QuizSegmentInput, window time.Duration) ([]models.QuizWindow, error) {
	if window <= 0 {
		window = b.window
	}
	windows := Windows(segments, window)
	total := len(windows)
	b.log.WithFields(logrus.Fields{"segments": len(segments), "windows": total}).Info("Generating quiz")

	results := make(chan windowResult, total)
	pending := 0
	for i := range windows {
		job := &windowJob{
			ctx:       ctx,
			generator: b.generator,
			window:    &windows[i],
			number:    i + 1,
			total:     total,
			done:      results,
		}
		if err := b.pool.Submit(ctx, job); err != nil {
			b.log.WithError(err).Warnf("Could not queue window %d/%d, leaving it without questions", i+1, total)
			continue
		}
		pending++
	}

	for ; pending > 0; pending-- {
		select {
		case res := <-results:
			if res.err != nil {
				b.log.WithError(res.err).Warnf("Question generation failed for window %d/%d", res.number, total)
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return windows, nil
}

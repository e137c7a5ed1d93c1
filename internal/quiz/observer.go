package quiz

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome summarizes one generation attempt for observability.
type Outcome struct {
	SegmentNumber int
	Accepted      int
	Drops         []Drop
	ExtractErr    error // nil when the reply parsed
	Fallback      bool
}

// Observer receives the outcome of every generation attempt.
type Observer interface {
	ObserveGeneration(ctx context.Context, o Outcome)
}

type nopObserver struct{}

func (nopObserver) ObserveGeneration(context.Context, Outcome) {}

// FailureKind names an extraction failure for logs and metric attributes.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoJSON):
		return "no_json"
	case errors.Is(err, ErrMalformedJSON):
		return "malformed_json"
	case errors.Is(err, ErrInvalidStructure):
		return "invalid_structure"
	default:
		return "unknown"
	}
}

// Metrics is an Observer backed by OpenTelemetry counters.
type Metrics struct {
	accepted           metric.Int64Counter
	dropped            metric.Int64Counter
	extractionFailures metric.Int64Counter
	fallbacks          metric.Int64Counter
}

// NewMetrics creates the quiz instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	accepted, err := meter.Int64Counter("quiz.questions.accepted",
		metric.WithDescription("Model questions that passed validation"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating quiz.questions.accepted counter: %w", err)
	}

	dropped, err := meter.Int64Counter("quiz.questions.dropped",
		metric.WithDescription("Model questions discarded by validation, by reason"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating quiz.questions.dropped counter: %w", err)
	}

	extractionFailures, err := meter.Int64Counter("quiz.extraction.failures",
		metric.WithDescription("Model replies that yielded no parseable questions array, by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating quiz.extraction.failures counter: %w", err)
	}

	fallbacks, err := meter.Int64Counter("quiz.fallbacks",
		metric.WithDescription("Generation requests answered with the fallback question"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating quiz.fallbacks counter: %w", err)
	}

	return &Metrics{
		accepted:           accepted,
		dropped:            dropped,
		extractionFailures: extractionFailures,
		fallbacks:          fallbacks,
	}, nil
}

// ObserveGeneration implements Observer.
func (m *Metrics) ObserveGeneration(ctx context.Context, o Outcome) {
	if o.Accepted > 0 {
		m.accepted.Add(ctx, int64(o.Accepted))
	}
	for _, d := range o.Drops {
		m.dropped.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", string(d.Reason))))
	}
	if o.ExtractErr != nil {
		m.extractionFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", FailureKind(o.ExtractErr))))
	}
	if o.Fallback {
		m.fallbacks.Add(ctx, 1)
	}
}

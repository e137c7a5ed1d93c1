package models

import (
	"time"

	"github.com/google/uuid"
)

// QuizSegmentInput is one transcript segment submitted to POST /generate-quiz.
type QuizSegmentInput struct {
	Start float64 `json:"start" validate:"gte=0"`
	End   float64 `json:"end" validate:"gtefield=Start"`
	Text  string  `json:"text"`
}

// GenerateQuizRequest is the body of POST /generate-quiz.
type GenerateQuizRequest struct {
	Segments      []QuizSegmentInput `json:"segments" validate:"required,min=1,dive"`
	WindowSeconds int                `json:"window_seconds,omitempty" validate:"omitempty,gte=30,lte=3600"`
}

// QuizWindow is a fixed-length slice of a transcript and the questions generated for it.
type QuizWindow struct {
	ID        uuid.UUID            `json:"id"`
	StartTime int                  `json:"start_time"`
	EndTime   int                  `json:"end_time"`
	Text      string               `json:"text"`
	Questions []IdentifiedQuestion `json:"questions"`
}

// IdentifiedQuestion is a QuizQuestion with a stable identifier.
type IdentifiedQuestion struct {
	ID uuid.UUID `json:"id"`
	QuizQuestion
}

// GenerateQuizResponse is the body returned by POST /generate-quiz.
type GenerateQuizResponse struct {
	Windows []QuizWindow `json:"windows"`
}

// Window returns the requested window length, zero when unset.
func (r *GenerateQuizRequest) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

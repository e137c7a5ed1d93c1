package models

import "encoding/json"

// Difficulty labels accepted on a QuizQuestion.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// QuestionDraft is a candidate question decoded from model output before
// validation. Pointer and raw fields keep "absent" distinguishable from "zero".
type QuestionDraft struct {
	Question      *string         `json:"question"`
	Options       *[]string       `json:"options"`
	CorrectAnswer json.RawMessage `json:"correct_answer"`
	Difficulty    *string         `json:"difficulty"`
	Topic         *string         `json:"topic"`
}

// QuizQuestion is a validated multiple-choice question.
type QuizQuestion struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"len=4,dive,required"`
	CorrectAnswer int      `json:"correct_answer" validate:"gte=0,lte=3"`
	Difficulty    string   `json:"difficulty" validate:"oneof=easy medium hard"`
	Topic         string   `json:"topic" validate:"required"`
}

// QuestionBatch is the result of one generation request. Questions is never empty.
type QuestionBatch struct {
	Questions     []QuizQuestion
	SegmentNumber int
	TotalSegments int
	Fallback      bool
}

// GenerateQuestionsRequest is the body of POST /generate-questions.
type GenerateQuestionsRequest struct {
	Text          string `json:"text"`
	SegmentNumber int    `json:"segment_number" validate:"gte=1"`
	TotalSegments int    `json:"total_segments" validate:"gte=1,gtefield=SegmentNumber"`
}

// GenerateQuestionsResponse is the body returned by POST /generate-questions.
type GenerateQuestionsResponse struct {
	Questions []QuizQuestion `json:"questions"`
}

package quiz

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"videoquiz/ai-services/models"
)

// Extraction failures. They are distinct so callers and metrics can tell them
// apart; all of them end in the fallback question for the end user.
var (
	ErrNoJSON           = errors.New("no JSON object found in model reply")
	ErrMalformedJSON    = errors.New("model reply JSON could not be parsed")
	ErrInvalidStructure = errors.New("model reply JSON has no questions array")
)

// DropReason says why a candidate question was discarded.
type DropReason string

const (
	DropMalformed    DropReason = "malformed"
	DropMissingField DropReason = "missing_field"
	DropOptionCount  DropReason = "option_count"
	DropAnswerType   DropReason = "answer_not_integer"
	DropAnswerRange  DropReason = "answer_out_of_range"
	DropBlankText    DropReason = "blank_text"
	DropDifficulty   DropReason = "unknown_difficulty"
)

// Drop records one discarded element of the questions array.
type Drop struct {
	Index  int
	Reason DropReason
	Detail string
}

// Extraction is the result of a successful parse. Questions may be empty when
// every candidate was dropped.
type Extraction struct {
	Questions []models.QuizQuestion
	Drops     []Drop
}

// Extract pulls the outermost JSON object out of a model reply and promotes each
// element of its "questions" array to a QuizQuestion, dropping invalid ones.
// Survivors keep the model's order.
func Extract(reply string) (*Extraction, error) {
	payload, err := locateJSON(reply)
	if err != nil {
		return nil, err
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(payload, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	rawQuestions, ok := root["questions"]
	if !ok {
		return nil, fmt.Errorf("%w: missing \"questions\" member", ErrInvalidStructure)
	}
	trimmed := bytes.TrimSpace(rawQuestions)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: \"questions\" is not an array", ErrInvalidStructure)
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStructure, err)
	}

	out := &Extraction{Questions: make([]models.QuizQuestion, 0, len(elements))}
	for i, el := range elements {
		q, drop := promote(el)
		if drop != nil {
			drop.Index = i
			out.Drops = append(out.Drops, *drop)
			continue
		}
		out.Questions = append(out.Questions, q)
	}
	return out, nil
}

// locateJSON slices reply from its first '{' to its last '}' inclusive.
func locateJSON(reply string) ([]byte, error) {
	start := strings.IndexByte(reply, '{')
	end := strings.LastIndexByte(reply, '}')
	if start < 0 || end < 0 || end <= start {
		return nil, ErrNoJSON
	}
	return []byte(reply[start : end+1]), nil
}

func promote(raw json.RawMessage) (models.QuizQuestion, *Drop) {
	var draft models.QuestionDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return models.QuizQuestion{}, &Drop{Reason: DropMalformed, Detail: err.Error()}
	}

	if missing := missingFields(draft); len(missing) > 0 {
		return models.QuizQuestion{}, &Drop{Reason: DropMissingField, Detail: strings.Join(missing, ",")}
	}

	options := *draft.Options
	if len(options) != 4 {
		return models.QuizQuestion{}, &Drop{Reason: DropOptionCount, Detail: fmt.Sprintf("%d options", len(options))}
	}

	answer, err := parseAnswer(draft.CorrectAnswer)
	if err != nil {
		return models.QuizQuestion{}, &Drop{Reason: DropAnswerType, Detail: err.Error()}
	}
	if answer < 0 || answer > 3 {
		return models.QuizQuestion{}, &Drop{Reason: DropAnswerRange, Detail: fmt.Sprintf("correct_answer=%d", answer)}
	}

	q := models.QuizQuestion{
		Question:      strings.TrimSpace(*draft.Question),
		Options:       make([]string, len(options)),
		CorrectAnswer: answer,
		Difficulty:    strings.ToLower(strings.TrimSpace(*draft.Difficulty)),
		Topic:         strings.TrimSpace(*draft.Topic),
	}
	for i, o := range options {
		q.Options[i] = strings.TrimSpace(o)
	}

	if blank := blankFields(q); blank != "" {
		return models.QuizQuestion{}, &Drop{Reason: DropBlankText, Detail: blank}
	}
	switch q.Difficulty {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
	default:
		return models.QuizQuestion{}, &Drop{Reason: DropDifficulty, Detail: q.Difficulty}
	}
	return q, nil
}

func missingFields(d models.QuestionDraft) []string {
	var missing []string
	if d.Question == nil {
		missing = append(missing, "question")
	}
	if d.Options == nil {
		missing = append(missing, "options")
	}
	if len(d.CorrectAnswer) == 0 || string(d.CorrectAnswer) == "null" {
		missing = append(missing, "correct_answer")
	}
	if d.Difficulty == nil {
		missing = append(missing, "difficulty")
	}
	if d.Topic == nil {
		missing = append(missing, "topic")
	}
	return missing
}

// parseAnswer accepts a JSON number with an integral value. Strings, booleans
// and fractional numbers are rejected.
func parseAnswer(raw json.RawMessage) (int, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, err
	}
	num, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("correct_answer is %T, not a number", v)
	}
	if i, err := num.Int64(); err == nil {
		return clampInt(i), nil
	}
	f, err := num.Float64()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("correct_answer %s is not an integer", num)
	}
	return clampInt(int64(f)), nil
}

// clampInt keeps huge values out of range without overflowing int.
func clampInt(i int64) int {
	if i > math.MaxInt32 {
		return math.MaxInt32
	}
	if i < math.MinInt32 {
		return math.MinInt32
	}
	return int(i)
}

func blankFields(q models.QuizQuestion) string {
	if q.Question == "" {
		return "question"
	}
	if q.Topic == "" {
		return "topic"
	}
	for i, o := range q.Options {
		if o == "" {
			return fmt.Sprintf("options[%d]", i)
		}
	}
	return ""
}

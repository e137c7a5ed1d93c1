package speech

import (
	"strconv"
	"strings"
)

// Task is the engine mode for one transcription call.
type Task string

const (
	TaskTranscribe Task = "transcribe"
	TaskTranslate  Task = "translate"
)

// ParseTask validates a task name. An empty name means TaskTranscribe.
func ParseTask(s string) (Task, bool) {
	switch Task(s) {
	case "", TaskTranscribe:
		return TaskTranscribe, true
	case TaskTranslate:
		return TaskTranslate, true
	default:
		return "", false
	}
}

// DecodeOptions are the decoding settings passed to the speech engine.
type DecodeOptions struct {
	Task                      Task
	Language                  string // empty means auto-detect
	Temperatures              []float64
	BestOf                    int
	BeamSize                  int
	WordTimestamps            bool
	ConditionOnPreviousText   bool
	CompressionRatioThreshold float64
	LogprobThreshold          float64
	NoSpeechThreshold         float64
}

// QualityOptions returns the fixed quality-oriented decoding policy used for
// every request. Only task and language vary.
func QualityOptions(task Task, language string) DecodeOptions {
	return DecodeOptions{
		Task:                      task,
		Language:                  strings.TrimSpace(language),
		Temperatures:              []float64{0.0, 0.2, 0.4, 0.6, 0.8, 1.0},
		BestOf:                    5,
		BeamSize:                  5,
		WordTimestamps:            true,
		ConditionOnPreviousText:   true,
		CompressionRatioThreshold: 2.4,
		LogprobThreshold:          -1.0,
		NoSpeechThreshold:         0.6,
	}
}

// FormFields renders the options as multipart form fields.
func (o DecodeOptions) FormFields() map[string]string {
	temps := make([]string, len(o.Temperatures))
	for i, t := range o.Temperatures {
		temps[i] = strconv.FormatFloat(t, 'f', 1, 64)
	}
	fields := map[string]string{
		"task":                        string(o.Task),
		"temperature":                 strings.Join(temps, ","),
		"best_of":                     strconv.Itoa(o.BestOf),
		"beam_size":                   strconv.Itoa(o.BeamSize),
		"word_timestamps":             strconv.FormatBool(o.WordTimestamps),
		"condition_on_previous_text":  strconv.FormatBool(o.ConditionOnPreviousText),
		"compression_ratio_threshold": strconv.FormatFloat(o.CompressionRatioThreshold, 'f', -1, 64),
		"logprob_threshold":           strconv.FormatFloat(o.LogprobThreshold, 'f', -1, 64),
		"no_speech_threshold":         strconv.FormatFloat(o.NoSpeechThreshold, 'f', -1, 64),
	}
	if o.Language != "" {
		fields["language"] = o.Language
	}
	return fields
}

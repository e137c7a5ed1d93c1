package models

import (
	"encoding/json"
	"fmt"
)

// TranscriptionResult is the full output of one transcription call.
type TranscriptionResult struct {
	Text     string              `json:"text"`
	Segments []TranscriptSegment `json:"segments"`
	Language string              `json:"language"`
}

// TranscriptSegment is one time-bounded span of recognized speech. Fields the
// engine reports beyond start/end/text (tokens, avg_logprob, words, ...) are
// kept in Native and written back out unchanged.
type TranscriptSegment struct {
	Start  float64                    `json:"start"`
	End    float64                    `json:"end"`
	Text   string                     `json:"text"`
	Native map[string]json.RawMessage `json:"-"`
}

var segmentCoreKeys = []string{"start", "end", "text"}

// UnmarshalJSON splits the engine's segment object into core and native fields.
func (s *TranscriptSegment) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var seg TranscriptSegment
	targets := []any{&seg.Start, &seg.End, &seg.Text}
	for i, key := range segmentCoreKeys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, targets[i]); err != nil {
			return fmt.Errorf("segment field %q: %w", key, err)
		}
		delete(raw, key)
	}
	if len(raw) > 0 {
		seg.Native = raw
	}

	*s = seg
	return nil
}

// MarshalJSON writes the native fields alongside start/end/text.
func (s TranscriptSegment) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Native)+3)
	for k, v := range s.Native {
		out[k] = v
	}
	out["start"] = s.Start
	out["end"] = s.End
	out["text"] = s.Text
	return json.Marshal(out)
}

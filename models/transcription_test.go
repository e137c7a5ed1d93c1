package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptSegmentKeepsNativeFields(t *testing.T) {
	in := `{"id":3,"seek":0,"start":1.5,"end":4.25,"text":" Hello there.","avg_logprob":-0.21,"words":[{"word":"Hello","start":1.5,"end":2.0}]}`

	var seg TranscriptSegment
	require.NoError(t, json.Unmarshal([]byte(in), &seg))

	assert.Equal(t, 1.5, seg.Start)
	assert.Equal(t, 4.25, seg.End)
	assert.Equal(t, " Hello there.", seg.Text)
	assert.Contains(t, seg.Native, "avg_logprob")
	assert.Contains(t, seg.Native, "words")
	assert.NotContains(t, seg.Native, "start")

	out, err := json.Marshal(seg)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestTranscriptSegmentWithoutNativeFields(t *testing.T) {
	seg := TranscriptSegment{Start: 0, End: 2, Text: "hi"}

	out, err := json.Marshal(seg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":0,"end":2,"text":"hi"}`, string(out))

	var back TranscriptSegment
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Nil(t, back.Native)
}

func TestTranscriptSegmentRejectsWrongTypes(t *testing.T) {
	var seg TranscriptSegment
	err := json.Unmarshal([]byte(`{"start":"soon","end":1,"text":"x"}`), &seg)
	assert.Error(t, err)
}

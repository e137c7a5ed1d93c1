package quiz

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestFallback(t *testing.T) {
	q := Fallback(4)

	assert.Equal(t, "Based on the content in segment 4, what is the main topic being discussed?", q.Question)
	assert.Len(t, q.Options, 4)
	assert.Equal(t, 0, q.CorrectAnswer)
	assert.Equal(t, "medium", q.Difficulty)
	assert.Equal(t, "Content Comprehension", q.Topic)
	assert.NoError(t, validator.New().Struct(q))
}

package quiz

import (
	"fmt"
	"strings"
)

// MaxExcerptRunes caps how much segment text is embedded in a prompt. The cut is
// a plain character cutoff and may split a word.
const MaxExcerptRunes = 2000

// SystemPrompt is sent as the system message of every generation call.
const SystemPrompt = "You are an expert educational assessment creator. Always respond with valid JSON only."

const promptTemplate = `You are an educational assessment expert. Based on the following educational content, generate 3-4 high-quality multiple choice questions that test comprehension and key concepts.

Content (Segment %d of %d):
%s

Instructions:
1. Create questions that test understanding, not just memorization
2. Include exactly 4 options (A, B, C, D) for each question
3. Vary difficulty levels (easy, medium, hard)
4. Focus on key concepts and important information
5. Make incorrect options plausible but clearly wrong
6. Identify the main topic for each question

You must respond with valid JSON in this exact format:
{
  "questions": [
    {
      "question": "What is the main concept discussed about [topic]?",
      "options": ["Correct answer", "Plausible wrong answer", "Another wrong answer", "Final wrong answer"],
      "correct_answer": 0,
      "difficulty": "medium",
      "topic": "Main topic"
    }
  ]
}

Generate 4-5 questions now:`

// BuildPrompt renders the question-generation prompt for one transcript segment.
func BuildPrompt(text string, segmentNumber, totalSegments int) string {
	return fmt.Sprintf(promptTemplate, segmentNumber, totalSegments, truncateRunes(text, MaxExcerptRunes))
}

func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}

// excerpt returns a short single-line preview of text for log fields.
func excerpt(text string, limit int) string {
	t := strings.Join(strings.Fields(text), " ")
	if short := truncateRunes(t, limit); len(short) < len(t) {
		return short + "..."
	}
	return t
}

package quiz

import (
	"fmt"

	"videoquiz/ai-services/models"
)

// Fallback is the synthetic question returned when no model question survives
// validation. It always validates.
func Fallback(segmentNumber int) models.QuizQuestion {
	return models.QuizQuestion{
		Question: fmt.Sprintf("Based on the content in segment %d, what is the main topic being discussed?", segmentNumber),
		Options: []string{
			"The primary concept explained in this segment",
			"A secondary topic mentioned briefly",
			"An unrelated educational topic",
			"Background information only",
		},
		CorrectAnswer: 0,
		Difficulty:    models.DifficultyMedium,
		Topic:         "Content Comprehension",
	}
}

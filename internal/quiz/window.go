package quiz

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"videoquiz/ai-services/models"
)

// DefaultWindow is the transcript span covered by one set of questions.
const DefaultWindow = 5 * time.Minute

// Windows groups transcript segments into fixed-length windows aligned to
// multiples of window. A segment belongs to the window its start falls in.
// Windows without text are skipped, so the result may have gaps.
func Windows(segments []models.QuizSegmentInput, window time.Duration) []models.QuizWindow {
	size := int(window / time.Second)
	if size <= 0 {
		size = int(DefaultWindow / time.Second)
	}

	sorted := make([]models.QuizSegmentInput, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var (
		windows      []models.QuizWindow
		currentStart int
		parts        []string
	)
	flush := func() {
		text := strings.Join(parts, " ")
		if text == "" {
			return
		}
		windows = append(windows, models.QuizWindow{
			ID:        uuid.New(),
			StartTime: currentStart,
			EndTime:   currentStart + size,
			Text:      text,
			Questions: []models.IdentifiedQuestion{},
		})
	}

	for _, seg := range sorted {
		start := int(math.Floor(seg.Start))
		if start >= currentStart+size {
			flush()
			currentStart = start / size * size
			parts = parts[:0]
		}
		if t := strings.Join(strings.Fields(seg.Text), " "); t != "" {
			parts = append(parts, t)
		}
	}
	flush()

	return windows
}

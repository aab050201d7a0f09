package session

import (
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"gorm.io/datatypes"
)

// Score counts questions whose selected option equals the stored correct answer text.
func Score(questions []*models.Question, answers map[uint]string) int {
	score := 0
	for _, q := range questions {
		if selected, ok := answers[q.ID]; ok && selected == q.CorrectAnswer {
			score++
		}
	}
	return score
}

func AllAnswered(questions []*models.Question, answers map[uint]string) bool {
	return answeredCount(questions, answers) == len(questions)
}

func answeredCount(questions []*models.Question, answers map[uint]string) int {
	n := 0
	for _, q := range questions {
		if answers[q.ID] != "" {
			n++
		}
	}
	return n
}

// flattenAnswers lists the answered questions in question order.
func flattenAnswers(questions []*models.Question, answers map[uint]string) datatypes.JSONSlice[models.SubmittedAnswer] {
	out := make(datatypes.JSONSlice[models.SubmittedAnswer], 0, len(answers))
	for _, q := range questions {
		if selected, ok := answers[q.ID]; ok && selected != "" {
			out = append(out, models.SubmittedAnswer{QuestionID: q.ID, SelectedAnswer: selected})
		}
	}
	return out
}

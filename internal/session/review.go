package session

import (
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

type ReviewItem struct {
	QuestionID     uint     `json:"question_id"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	SelectedAnswer string   `json:"selected_answer,omitempty"`
	Answered       bool     `json:"answered"`
	CorrectAnswer  string   `json:"correct_answer"`
	IsCorrect      bool     `json:"is_correct"`
}

// Review is the read-only view of a stored submission.
type Review struct {
	QuizID      uint         `json:"quiz_id"`
	Score       int          `json:"score"`
	Total       int          `json:"total"`
	SubmittedAt time.Time    `json:"submitted_at"`
	Items       []ReviewItem `json:"items"`
}

// BuildReview depends only on its arguments; the score shown is the stored one.
func BuildReview(questions []*models.Question, submission *models.Submission) *Review {
	if submission == nil {
		return nil
	}

	review := &Review{
		QuizID:      submission.QuizID,
		Score:       submission.Score,
		Total:       len(questions),
		SubmittedAt: submission.SubmittedAt,
		Items:       make([]ReviewItem, 0, len(questions)),
	}
	for _, q := range questions {
		selected, answered := submission.AnswerFor(q.ID)
		review.Items = append(review.Items, ReviewItem{
			QuestionID:     q.ID,
			Question:       q.Text,
			Options:        append([]string(nil), q.Options...),
			SelectedAnswer: selected,
			Answered:       answered,
			CorrectAnswer:  q.CorrectAnswer,
			IsCorrect:      answered && selected == q.CorrectAnswer,
		})
	}
	return review
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

type SubmittedAnswer struct {
	QuestionID     uint   `json:"question_id"`
	SelectedAnswer string `json:"selected_answer"`
}

// Submission is one student's single attempt at a quiz. The composite unique
// index on (quiz_id, student_id) is the authoritative duplicate guard.
type Submission struct {
	ID          uint                                 `json:"id" gorm:"primaryKey"`
	QuizID      uint                                 `json:"quiz_id" gorm:"not null;uniqueIndex:idx_quiz_answers_quiz_student"`
	StudentID   string                               `json:"student_id" gorm:"not null;size:255;uniqueIndex:idx_quiz_answers_quiz_student"`
	Answers     datatypes.JSONSlice[SubmittedAnswer] `json:"answers" gorm:"type:jsonb;not null"`
	Score       int                                  `json:"score" gorm:"not null"`
	SubmittedAt time.Time                            `json:"submitted_at" gorm:"not null"`
}

func (Submission) TableName() string {
	return "quiz_answers"
}

// AnswerFor returns the option the student selected for questionID.
func (s *Submission) AnswerFor(questionID uint) (string, bool) {
	for _, a := range s.Answers {
		if a.QuestionID == questionID {
			return a.SelectedAnswer, true
		}
	}
	return "", false
}

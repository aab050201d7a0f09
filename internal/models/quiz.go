package models

import (
	"time"

	"gorm.io/datatypes"
)

type Quiz struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	CourseID    string  `json:"course_id" gorm:"not null;size:255;index"`
	Title       string  `json:"title" gorm:"not null;size:200"`
	Description *string `json:"description,omitempty" gorm:"type:text"`
	Duration    *int    `json:"duration,omitempty"` // minutes, nil for untimed quizzes

	CreatedBy string    `json:"created_by,omitempty" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// IsTimed reports whether the quiz carries a usable duration.
func (q *Quiz) IsTimed() bool {
	return q.Duration != nil && *q.Duration > 0
}

// TimeLimitSeconds returns the countdown length, or 0 for untimed quizzes.
func (q *Quiz) TimeLimitSeconds() int {
	if !q.IsTimed() {
		return 0
	}
	return *q.Duration * 60
}

type Question struct {
	ID            uint                        `json:"id" gorm:"primaryKey"`
	QuizID        uint                        `json:"quiz_id" gorm:"not null;index"`
	Text          string                      `json:"question" gorm:"not null;type:text"`
	Options       datatypes.JSONSlice[string] `json:"options" gorm:"type:jsonb;not null"`
	CorrectAnswer string                      `json:"answer" gorm:"not null;type:text"`
	Position      int                         `json:"position" gorm:"not null;default:0"`
	CreatedAt     time.Time                   `json:"created_at"`
}

func (Question) TableName() string {
	return "quiz_questions"
}

// HasOption reports whether opt is one of the question's options.
func (q *Question) HasOption(opt string) bool {
	for _, o := range q.Options {
		if o == opt {
			return true
		}
	}
	return false
}

// CorrectAnswerMatches reports whether the stored correct answer equals exactly one option.
func (q *Question) CorrectAnswerMatches() bool {
	matches := 0
	for _, o := range q.Options {
		if o == q.CorrectAnswer {
			matches++
		}
	}
	return matches == 1
}

package services

import (
	"context"
	"io"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/session"
)

// QuizService covers quiz authoring
type QuizService interface {
	CreateQuiz(ctx context.Context, courseID string, req *CreateQuizRequest, creatorID string) (*models.Quiz, error)
	GetQuiz(ctx context.Context, id uint) (*models.Quiz, error)
	// ImportQuestionsFromExcel appends the valid rows of an .xlsx sheet to the quiz
	ImportQuestionsFromExcel(ctx context.Context, quizID uint, reader io.Reader, userID string) (*ImportResult, error)
}

// ResultService covers reading stored submissions
type ResultService interface {
	GetReview(ctx context.Context, quizID uint, userID string) (*session.Review, error)
	ExportResults(ctx context.Context, quizID uint, userID string) ([]byte, error)
}

// CatalogInvalidator drops cached catalog entries after authoring writes
type CatalogInvalidator interface {
	InvalidateQuiz(ctx context.Context, quiz *models.Quiz)
}

// ===== REQUEST / RESPONSE TYPES =====

type CreateQuizRequest struct {
	Title       string                  `json:"title" validate:"required,notblank,max=200"`
	Description *string                 `json:"description,omitempty" validate:"omitempty,max=1000"`
	Duration    *int                    `json:"duration,omitempty" validate:"omitempty,gt=0,lte=600"` // minutes
	Questions   []CreateQuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// CreateQuestionRequest names the correct answer either by option text (Answer)
// or by its position among Options (CorrectIndex). CorrectIndex wins when both are set.
type CreateQuestionRequest struct {
	Question     string   `json:"question" validate:"required"`
	Options      []string `json:"options" validate:"required"`
	Answer       string   `json:"answer,omitempty"`
	CorrectIndex *int     `json:"correct_index,omitempty"`
}

type ImportRowError struct {
	Row    int              `json:"row"`
	Errors ValidationErrors `json:"errors"`
}

type ImportResult struct {
	QuizID       uint               `json:"quiz_id"`
	TotalRows    int                `json:"total_rows"`
	SuccessCount int                `json:"success_count"`
	ErrorCount   int                `json:"error_count"`
	Errors       []ImportRowError   `json:"errors"`
	Questions    []*models.Question `json:"questions,omitempty"`
}

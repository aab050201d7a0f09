package session

import (
	"context"
	"strings"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// Store is the data access the controller needs. InsertSubmission must fail with an
// error satisfying repositories.IsUniqueViolation when (quiz, student) already exists.
type Store interface {
	ListQuizzes(ctx context.Context, courseID string) ([]*models.Quiz, error)
	ListQuestions(ctx context.Context, quizID uint) ([]*models.Question, error)
	// FindSubmission returns nil, nil when no submission exists
	FindSubmission(ctx context.Context, quizID uint, userID string) (*models.Submission, error)
	InsertSubmission(ctx context.Context, submission *models.Submission) error
}

// Identity is the caller as resolved by the auth layer. An empty UserID means anonymous.
type Identity struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
}

func (i Identity) Authenticated() bool {
	return strings.TrimSpace(i.UserID) != ""
}

package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// QuizRepository interface for quiz catalog operations
type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	ListByCourse(ctx context.Context, courseID string) ([]*models.Quiz, error)
}

// QuestionRepository interface for quiz question operations
type QuestionRepository interface {
	// ListByQuiz returns questions in display order (position, then id)
	ListByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error)
	CreateBatch(ctx context.Context, questions []*models.Question) error
	CountByQuiz(ctx context.Context, quizID uint) (int64, error)
}

// SubmissionRepository interface for quiz submissions.
// At most one submission exists per (quiz, student).
type SubmissionRepository interface {
	// FindByQuizAndStudent returns nil, nil when the student has not submitted
	FindByQuizAndStudent(ctx context.Context, quizID uint, studentID string) (*models.Submission, error)
	// Create fails with an error satisfying IsUniqueViolation on a duplicate (quiz, student)
	Create(ctx context.Context, submission *models.Submission) error
	ListByQuiz(ctx context.Context, quizID uint) ([]*models.Submission, error)
}

// Repository aggregates all repositories
type Repository interface {
	Quiz() QuizRepository
	Question() QuestionRepository
	Submission() SubmissionRepository
}

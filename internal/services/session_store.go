package services

import (
	"context"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/session"
)

// QuizReader serves course catalogs and question lists, typically through the cache
type QuizReader interface {
	ListQuizzes(ctx context.Context, courseID string) ([]*models.Quiz, error)
	ListQuestions(ctx context.Context, quizID uint) ([]*models.Question, error)
}

type sessionStore struct {
	repo   repositories.Repository
	reader QuizReader
}

// NewSessionStore backs session controllers with the repositories. Reads of quizzes and
// questions go through reader when it is non-nil. Submissions always hit the database.
func NewSessionStore(repo repositories.Repository, reader QuizReader) session.Store {
	return &sessionStore{repo: repo, reader: reader}
}

func (s *sessionStore) ListQuizzes(ctx context.Context, courseID string) ([]*models.Quiz, error) {
	if s.reader != nil {
		return s.reader.ListQuizzes(ctx, courseID)
	}
	return s.repo.Quiz().ListByCourse(ctx, courseID)
}

func (s *sessionStore) ListQuestions(ctx context.Context, quizID uint) ([]*models.Question, error) {
	if s.reader != nil {
		return s.reader.ListQuestions(ctx, quizID)
	}
	return s.repo.Question().ListByQuiz(ctx, quizID)
}

func (s *sessionStore) FindSubmission(ctx context.Context, quizID uint, userID string) (*models.Submission, error) {
	return s.repo.Submission().FindByQuizAndStudent(ctx, quizID, userID)
}

func (s *sessionStore) InsertSubmission(ctx context.Context, submission *models.Submission) error {
	return s.repo.Submission().Create(ctx, submission)
}

package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/repositories/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	quizzes   []*models.Quiz
	questions []*models.Question
}

func (s *stubReader) ListQuizzes(context.Context, string) ([]*models.Quiz, error) {
	return s.quizzes, nil
}

func (s *stubReader) ListQuestions(context.Context, uint) ([]*models.Question, error) {
	return s.questions, nil
}

func TestSessionStore_ReadsThroughReader(t *testing.T) {
	repo := mocks.NewMockRepository()
	reader := &stubReader{
		quizzes:   []*models.Quiz{{ID: 1}},
		questions: []*models.Question{{ID: 2}},
	}
	store := NewSessionStore(repo, reader)
	ctx := context.Background()

	quizzes, err := store.ListQuizzes(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, reader.quizzes, quizzes)

	questions, err := store.ListQuestions(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, reader.questions, questions)

	repo.Quizzes.AssertNotCalled(t, "ListByCourse", mock.Anything, mock.Anything)
	repo.Questions.AssertNotCalled(t, "ListByQuiz", mock.Anything, mock.Anything)
}

func TestSessionStore_FallsBackToRepository(t *testing.T) {
	repo := mocks.NewMockRepository()
	store := NewSessionStore(repo, nil)
	ctx := context.Background()

	repo.Quizzes.On("ListByCourse", mock.Anything, "c1").Return([]*models.Quiz{{ID: 1}}, nil).Once()
	repo.Questions.On("ListByQuiz", mock.Anything, uint(1)).Return([]*models.Question{{ID: 2}}, nil).Once()

	_, err := store.ListQuizzes(ctx, "c1")
	require.NoError(t, err)
	_, err = store.ListQuestions(ctx, 1)
	require.NoError(t, err)

	repo.Quizzes.AssertExpectations(t)
	repo.Questions.AssertExpectations(t)
}

func TestSessionStore_SubmissionsAlwaysHitRepository(t *testing.T) {
	repo := mocks.NewMockRepository()
	store := NewSessionStore(repo, &stubReader{})
	ctx := context.Background()

	sub := &models.Submission{QuizID: 1, StudentID: "s1"}
	repo.Submissions.On("FindByQuizAndStudent", mock.Anything, uint(1), "s1").Return(nil, nil).Once()
	repo.Submissions.On("Create", mock.Anything, sub).Return(repositories.ErrDuplicateKey).Once()

	found, err := store.FindSubmission(ctx, 1, "s1")
	require.NoError(t, err)
	assert.Nil(t, found)

	err = store.InsertSubmission(ctx, sub)
	assert.True(t, repositories.IsUniqueViolation(err))

	repo.Submissions.AssertExpectations(t)
}

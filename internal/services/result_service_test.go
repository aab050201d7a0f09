package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/repositories/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

func newResultService() (ResultService, *mocks.MockRepository) {
	repo := mocks.NewMockRepository()
	return NewResultService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func reviewQuestions() []*models.Question {
	return []*models.Question{
		{ID: 1, QuizID: 4, Text: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4"},
		{ID: 2, QuizID: 4, Text: "Sky?", Options: []string{"Blue", "Green"}, CorrectAnswer: "Blue"},
		{ID: 3, QuizID: 4, Text: "Sun?", Options: []string{"Star", "Planet"}, CorrectAnswer: "Star"},
	}
}

func TestResultService_GetReview(t *testing.T) {
	service, repo := newResultService()
	ctx := context.Background()

	submittedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	sub := &models.Submission{
		ID:        11,
		QuizID:    4,
		StudentID: "student-1",
		Answers: datatypes.JSONSlice[models.SubmittedAnswer]{
			{QuestionID: 1, SelectedAnswer: "4"},
			{QuestionID: 2, SelectedAnswer: "Green"},
		},
		Score:       1,
		SubmittedAt: submittedAt,
	}
	repo.Quizzes.On("GetByID", mock.Anything, uint(4)).Return(&models.Quiz{ID: 4}, nil)
	repo.Submissions.On("FindByQuizAndStudent", mock.Anything, uint(4), "student-1").Return(sub, nil)
	repo.Questions.On("ListByQuiz", mock.Anything, uint(4)).Return(reviewQuestions(), nil)

	review, err := service.GetReview(ctx, 4, "student-1")
	require.NoError(t, err)

	assert.Equal(t, 1, review.Score)
	assert.Equal(t, 3, review.Total)
	assert.Equal(t, submittedAt, review.SubmittedAt)
	require.Len(t, review.Items, 3)
	assert.True(t, review.Items[0].IsCorrect)
	assert.False(t, review.Items[1].IsCorrect)
	assert.Equal(t, "Blue", review.Items[1].CorrectAnswer)
	assert.False(t, review.Items[2].Answered)
}

func TestResultService_GetReviewErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown quiz", func(t *testing.T) {
		service, repo := newResultService()
		repo.Quizzes.On("GetByID", mock.Anything, uint(4)).Return(nil, repositories.ErrNotFound)

		_, err := service.GetReview(ctx, 4, "student-1")
		assert.ErrorIs(t, err, ErrQuizNotFound)
	})

	t.Run("not submitted", func(t *testing.T) {
		service, repo := newResultService()
		repo.Quizzes.On("GetByID", mock.Anything, uint(4)).Return(&models.Quiz{ID: 4}, nil)
		repo.Submissions.On("FindByQuizAndStudent", mock.Anything, uint(4), "student-1").Return(nil, nil)

		_, err := service.GetReview(ctx, 4, "student-1")
		assert.ErrorIs(t, err, ErrSubmissionNotFound)
		assert.True(t, IsNotFound(err))
		repo.Questions.AssertNotCalled(t, "ListByQuiz", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		service, repo := newResultService()
		repo.Quizzes.On("GetByID", mock.Anything, uint(4)).Return(&models.Quiz{ID: 4}, nil)
		repo.Submissions.On("FindByQuizAndStudent", mock.Anything, uint(4), "student-1").Return(nil, errors.New("db down"))

		_, err := service.GetReview(ctx, 4, "student-1")
		require.Error(t, err)
		assert.False(t, IsNotFound(err))
	})
}

func TestResultService_ExportResults(t *testing.T) {
	service, repo := newResultService()
	ctx := context.Background()

	repo.Quizzes.On("GetByID", mock.Anything, uint(4)).Return(&models.Quiz{ID: 4, CreatedBy: "instructor-1"}, nil)
	repo.Questions.On("CountByQuiz", mock.Anything, uint(4)).Return(int64(3), nil)
	repo.Submissions.On("ListByQuiz", mock.Anything, uint(4)).Return([]*models.Submission{
		{StudentID: "student-1", Score: 2, SubmittedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{StudentID: "student-2", Score: 3, SubmittedAt: time.Date(2025, 3, 1, 11, 30, 0, 0, time.UTC)},
	}, nil)

	data, err := service.ExportResults(ctx, 4, "instructor-1")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Results"}, f.GetSheetList())
	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Student ID", "Score", "Total", "Percentage", "Submitted At"}, rows[0])
	assert.Equal(t, []string{"student-1", "2", "3", "66.7", "2025-03-01 10:00:00"}, rows[1])
	assert.Equal(t, []string{"student-2", "3", "3", "100.0", "2025-03-01 11:30:00"}, rows[2])
}

func TestResultService_ExportResultsForbidden(t *testing.T) {
	service, repo := newResultService()
	repo.Quizzes.On("GetByID", mock.Anything, uint(4)).Return(&models.Quiz{ID: 4, CreatedBy: "instructor-1"}, nil)

	_, err := service.ExportResults(context.Background(), 4, "student-1")

	assert.True(t, IsForbidden(err))
	repo.Submissions.AssertNotCalled(t, "ListByQuiz", mock.Anything, mock.Anything)
}

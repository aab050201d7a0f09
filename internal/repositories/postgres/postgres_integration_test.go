package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/datatypes"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func startPostgres(ctx context.Context, t *testing.T) *gorm.DB {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "quiz",
			"POSTGRES_PASSWORD": "quiz",
			"POSTGRES_DB":       "quiz",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, pgC.Terminate(context.Background()))
	})

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://quiz:quiz@%s:%s/quiz?sslmode=disable", host, port.Port())
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, pkg.Migrate(db))
	return db
}

func TestRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo := NewRepository(startPostgres(ctx, t))

	duration := 10
	quiz := &models.Quiz{
		CourseID: "course-1",
		Title:    "Midterm",
		Duration: &duration,
		Questions: []models.Question{
			{Text: "2+2?", Options: datatypes.JSONSlice[string]{"3", "4"}, CorrectAnswer: "4", Position: 1},
			{Text: "Capital of France?", Options: datatypes.JSONSlice[string]{"Paris", "Rome"}, CorrectAnswer: "Paris", Position: 0},
		},
	}
	require.NoError(t, repo.Quiz().Create(ctx, quiz))
	require.NotZero(t, quiz.ID)

	t.Run("ListByCourse", func(t *testing.T) {
		quizzes, err := repo.Quiz().ListByCourse(ctx, "course-1")
		require.NoError(t, err)
		require.Len(t, quizzes, 1)
		assert.Equal(t, "Midterm", quizzes[0].Title)

		none, err := repo.Quiz().ListByCourse(ctx, "other")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("GetByID not found", func(t *testing.T) {
		_, err := repo.Quiz().GetByID(ctx, 9999)
		assert.True(t, repositories.IsNotFoundError(err))
	})

	t.Run("ListByQuiz ordered by position", func(t *testing.T) {
		questions, err := repo.Question().ListByQuiz(ctx, quiz.ID)
		require.NoError(t, err)
		require.Len(t, questions, 2)
		assert.Equal(t, "Capital of France?", questions[0].Text)
		assert.Equal(t, []string{"Paris", "Rome"}, []string(questions[0].Options))

		count, err := repo.Question().CountByQuiz(ctx, quiz.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})

	t.Run("Submission uniqueness", func(t *testing.T) {
		found, err := repo.Submission().FindByQuizAndStudent(ctx, quiz.ID, "student-1")
		require.NoError(t, err)
		assert.Nil(t, found)

		first := &models.Submission{
			QuizID:      quiz.ID,
			StudentID:   "student-1",
			Answers:     datatypes.JSONSlice[models.SubmittedAnswer]{{QuestionID: 1, SelectedAnswer: "4"}},
			Score:       1,
			SubmittedAt: time.Now(),
		}
		require.NoError(t, repo.Submission().Create(ctx, first))

		second := &models.Submission{
			QuizID:      quiz.ID,
			StudentID:   "student-1",
			Answers:     datatypes.JSONSlice[models.SubmittedAnswer]{},
			SubmittedAt: time.Now(),
		}
		err = repo.Submission().Create(ctx, second)
		require.Error(t, err)
		assert.True(t, repositories.IsUniqueViolation(err))

		found, err = repo.Submission().FindByQuizAndStudent(ctx, quiz.ID, "student-1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, first.ID, found.ID)
		assert.Equal(t, 1, found.Score)

		all, err := repo.Submission().ListByQuiz(ctx, quiz.ID)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

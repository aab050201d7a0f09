package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
)

func CourseQuizzesKey(courseID string) string {
	return fmt.Sprintf("quiz:course:%s", courseID)
}

func QuizQuestionsKey(quizID uint) string {
	return fmt.Sprintf("quiz:%d:questions", quizID)
}

// CachedQuizReader reads course catalogs and question lists through the cache.
// Cache faults are logged and never fail a read. Submissions are not cached.
type CachedQuizReader struct {
	quizzes   repositories.QuizRepository
	questions repositories.QuestionRepository
	cache     CacheService
	ttl       time.Duration
	logger    *slog.Logger
}

func NewCachedQuizReader(
	quizzes repositories.QuizRepository,
	questions repositories.QuestionRepository,
	cache CacheService,
	ttl time.Duration,
	logger *slog.Logger,
) *CachedQuizReader {
	return &CachedQuizReader{
		quizzes:   quizzes,
		questions: questions,
		cache:     cache,
		ttl:       ttl,
		logger:    logger,
	}
}

func (r *CachedQuizReader) ListQuizzes(ctx context.Context, courseID string) ([]*models.Quiz, error) {
	key := CourseQuizzesKey(courseID)

	var cached []*models.Quiz
	if r.lookup(ctx, key, &cached) {
		return cached, nil
	}

	quizzes, err := r.quizzes.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, quizzes)
	return quizzes, nil
}

func (r *CachedQuizReader) ListQuestions(ctx context.Context, quizID uint) ([]*models.Question, error) {
	key := QuizQuestionsKey(quizID)

	var cached []*models.Question
	if r.lookup(ctx, key, &cached) {
		return cached, nil
	}

	questions, err := r.questions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, questions)
	return questions, nil
}

// InvalidateQuiz drops the cached catalog of the quiz's course and its question list.
func (r *CachedQuizReader) InvalidateQuiz(ctx context.Context, quiz *models.Quiz) {
	if r.cache == nil {
		return
	}
	for _, key := range []string{CourseQuizzesKey(quiz.CourseID), QuizQuestionsKey(quiz.ID)} {
		if err := r.cache.Delete(ctx, key); err != nil {
			r.logger.Warn("Failed to invalidate cache", "key", key, "error", err)
		}
	}
}

func (r *CachedQuizReader) lookup(ctx context.Context, key string, dest interface{}) bool {
	if r.cache == nil {
		return false
	}
	err := r.cache.Get(ctx, key, dest)
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrCacheMiss):
		return false
	default:
		r.logger.Warn("Cache read failed, falling back to database", "key", key, "error", err)
		return false
	}
}

func (r *CachedQuizReader) store(ctx context.Context, key string, value interface{}) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, key, value, r.ttl); err != nil {
		r.logger.Warn("Cache write failed", "key", key, "error", err)
	}
}

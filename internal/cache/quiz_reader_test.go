package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memoryCache round-trips values through JSON like the redis implementation.
type memoryCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	m.mu.Lock()
	b, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(b, dest)
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryCache) DeletePattern(context.Context, string) error { return nil }

func (m *memoryCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

func newTestReader(c CacheService) (*CachedQuizReader, *mocks.MockRepository) {
	repo := mocks.NewMockRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCachedQuizReader(repo.Quizzes, repo.Questions, c, time.Minute, logger), repo
}

func TestCachedQuizReader_ListQuizzesReadsThrough(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache()
	reader, repo := newTestReader(c)

	quizzes := []*models.Quiz{{ID: 1, CourseID: "c1", Title: "Quiz 1"}}
	repo.Quizzes.On("ListByCourse", mock.Anything, "c1").Return(quizzes, nil).Once()

	first, err := reader.ListQuizzes(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Quiz 1", first[0].Title)
	assert.True(t, c.has(CourseQuizzesKey("c1")))

	second, err := reader.ListQuizzes(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, uint(1), second[0].ID)

	repo.Quizzes.AssertNumberOfCalls(t, "ListByCourse", 1)
}

func TestCachedQuizReader_ListQuestionsReadsThrough(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache()
	reader, repo := newTestReader(c)

	questions := []*models.Question{
		{ID: 10, QuizID: 2, Text: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4"},
	}
	repo.Questions.On("ListByQuiz", mock.Anything, uint(2)).Return(questions, nil).Once()

	_, err := reader.ListQuestions(ctx, 2)
	require.NoError(t, err)
	cached, err := reader.ListQuestions(ctx, 2)
	require.NoError(t, err)

	require.Len(t, cached, 1)
	assert.Equal(t, "4", cached[0].CorrectAnswer)
	assert.Equal(t, []string{"3", "4"}, []string(cached[0].Options))
	repo.Questions.AssertExpectations(t)
}

func TestCachedQuizReader_CacheFaultsFallBackToRepository(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache()
	c.getErr = errors.New("connection refused")
	c.setErr = errors.New("connection refused")
	reader, repo := newTestReader(c)

	repo.Quizzes.On("ListByCourse", mock.Anything, "c1").Return([]*models.Quiz{{ID: 1}}, nil).Twice()

	for i := 0; i < 2; i++ {
		quizzes, err := reader.ListQuizzes(ctx, "c1")
		require.NoError(t, err)
		assert.Len(t, quizzes, 1)
	}
	repo.Quizzes.AssertExpectations(t)
}

func TestCachedQuizReader_RepositoryErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache()
	reader, repo := newTestReader(c)

	repo.Quizzes.On("ListByCourse", mock.Anything, "c1").Return(nil, errors.New("db down")).Once()

	_, err := reader.ListQuizzes(ctx, "c1")
	require.Error(t, err)
	assert.False(t, c.has(CourseQuizzesKey("c1")))
}

func TestCachedQuizReader_InvalidateQuiz(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache()
	reader, _ := newTestReader(c)

	require.NoError(t, c.Set(ctx, CourseQuizzesKey("c1"), []int{1}, 0))
	require.NoError(t, c.Set(ctx, QuizQuestionsKey(7), []int{1}, 0))

	reader.InvalidateQuiz(ctx, &models.Quiz{ID: 7, CourseID: "c1"})

	assert.False(t, c.has(CourseQuizzesKey("c1")))
	assert.False(t, c.has(QuizQuestionsKey(7)))
}

func TestCachedQuizReader_NilCache(t *testing.T) {
	reader, repo := newTestReader(nil)
	repo.Questions.On("ListByQuiz", mock.Anything, uint(1)).Return([]*models.Question{}, nil).Twice()

	for i := 0; i < 2; i++ {
		_, err := reader.ListQuestions(context.Background(), 1)
		require.NoError(t, err)
	}
	repo.Questions.AssertExpectations(t)
}

// Package sessiontest provides an in-memory quiz store and a manual tick source for
// exercising quiz sessions without a database or wall-clock waits.
package sessiontest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
)

type submissionKey struct {
	quizID uint
	userID string
}

// MemoryStore enforces one submission per (quiz, user) like the unique index does.
type MemoryStore struct {
	mu          sync.Mutex
	quizzes     map[string][]*models.Quiz
	questions   map[uint][]*models.Question
	submissions map[submissionKey]*models.Submission
	nextID      uint

	ListQuizzesErr   error
	ListQuestionsErr error
	FindErr          error
	InsertErr        error
	// HideSubmissions makes FindSubmission report nothing, as a stale read would.
	HideSubmissions bool
	// BeforeInsert runs at the start of every InsertSubmission call.
	BeforeInsert func()

	finds          int
	insertAttempts int
	inserts        int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		quizzes:     make(map[string][]*models.Quiz),
		questions:   make(map[uint][]*models.Question),
		submissions: make(map[submissionKey]*models.Submission),
	}
}

// AddQuiz registers quiz under its course with the given questions.
func (s *MemoryStore) AddQuiz(quiz *models.Quiz, questions ...*models.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[quiz.CourseID] = append(s.quizzes[quiz.CourseID], quiz)
	for _, q := range questions {
		q.QuizID = quiz.ID
	}
	s.questions[quiz.ID] = append(s.questions[quiz.ID], questions...)
}

// SeedSubmission stores a submission directly, bypassing counters.
func (s *MemoryStore) SeedSubmission(sub *models.Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	if sub.ID == 0 {
		sub.ID = s.nextID
	}
	cp := *sub
	s.submissions[submissionKey{sub.QuizID, sub.StudentID}] = &cp
}

func (s *MemoryStore) ListQuizzes(ctx context.Context, courseID string) ([]*models.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListQuizzesErr != nil {
		return nil, s.ListQuizzesErr
	}
	return append([]*models.Quiz(nil), s.quizzes[courseID]...), nil
}

func (s *MemoryStore) ListQuestions(ctx context.Context, quizID uint) ([]*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListQuestionsErr != nil {
		return nil, s.ListQuestionsErr
	}
	return append([]*models.Question(nil), s.questions[quizID]...), nil
}

func (s *MemoryStore) FindSubmission(ctx context.Context, quizID uint, userID string) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finds++
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	if s.HideSubmissions {
		return nil, nil
	}
	sub, ok := s.submissions[submissionKey{quizID, userID}]
	if !ok {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (s *MemoryStore) InsertSubmission(ctx context.Context, sub *models.Submission) error {
	if s.BeforeInsert != nil {
		s.BeforeInsert()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertAttempts++
	if s.InsertErr != nil {
		return s.InsertErr
	}
	key := submissionKey{sub.QuizID, sub.StudentID}
	if _, exists := s.submissions[key]; exists {
		return fmt.Errorf("insert submission: %w", repositories.ErrDuplicateKey)
	}
	s.nextID++
	sub.ID = s.nextID
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now()
	}
	cp := *sub
	s.submissions[key] = &cp
	s.inserts++
	return nil
}

// Submissions returns every stored submission for quizID.
func (s *MemoryStore) Submissions(quizID uint) []models.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Submission
	for k, v := range s.submissions {
		if k.quizID == quizID {
			out = append(out, *v)
		}
	}
	return out
}

func (s *MemoryStore) Inserts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inserts
}

func (s *MemoryStore) InsertAttempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertAttempts
}

func (s *MemoryStore) Finds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finds
}

// Clear drops every injected error.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListQuizzesErr = nil
	s.ListQuestionsErr = nil
	s.FindErr = nil
	s.InsertErr = nil
	s.HideSubmissions = false
}

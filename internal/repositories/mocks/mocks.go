// Package mocks provides testify mocks of the repository interfaces.
package mocks

import (
	"context"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	args := m.Called(ctx, id)
	quiz, _ := args.Get(0).(*models.Quiz)
	return quiz, args.Error(1)
}

func (m *MockQuizRepository) ListByCourse(ctx context.Context, courseID string) ([]*models.Quiz, error) {
	args := m.Called(ctx, courseID)
	quizzes, _ := args.Get(0).([]*models.Quiz)
	return quizzes, args.Error(1)
}

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) ListByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error) {
	args := m.Called(ctx, quizID)
	questions, _ := args.Get(0).([]*models.Question)
	return questions, args.Error(1)
}

func (m *MockQuestionRepository) CreateBatch(ctx context.Context, questions []*models.Question) error {
	args := m.Called(ctx, questions)
	return args.Error(0)
}

func (m *MockQuestionRepository) CountByQuiz(ctx context.Context, quizID uint) (int64, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).(int64), args.Error(1)
}

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) FindByQuizAndStudent(ctx context.Context, quizID uint, studentID string) (*models.Submission, error) {
	args := m.Called(ctx, quizID, studentID)
	sub, _ := args.Get(0).(*models.Submission)
	return sub, args.Error(1)
}

func (m *MockSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) ListByQuiz(ctx context.Context, quizID uint) ([]*models.Submission, error) {
	args := m.Called(ctx, quizID)
	subs, _ := args.Get(0).([]*models.Submission)
	return subs, args.Error(1)
}

// MockRepository bundles the three mocks behind repositories.Repository.
type MockRepository struct {
	Quizzes     *MockQuizRepository
	Questions   *MockQuestionRepository
	Submissions *MockSubmissionRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		Quizzes:     &MockQuizRepository{},
		Questions:   &MockQuestionRepository{},
		Submissions: &MockSubmissionRepository{},
	}
}

func (m *MockRepository) Quiz() repositories.QuizRepository             { return m.Quizzes }
func (m *MockRepository) Question() repositories.QuestionRepository     { return m.Questions }
func (m *MockRepository) Submission() repositories.SubmissionRepository { return m.Submissions }

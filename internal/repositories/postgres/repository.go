package postgres

import (
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	quiz       repositories.QuizRepository
	question   repositories.QuestionRepository
	submission repositories.SubmissionRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		quiz:       NewQuizPostgreSQL(db),
		question:   NewQuestionPostgreSQL(db),
		submission: NewSubmissionPostgreSQL(db),
	}
}

func (r *repository) Quiz() repositories.QuizRepository             { return r.quiz }
func (r *repository) Question() repositories.QuestionRepository     { return r.question }
func (r *repository) Submission() repositories.SubmissionRepository { return r.submission }

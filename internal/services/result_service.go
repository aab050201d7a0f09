package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/session"
	"github.com/xuri/excelize/v2"
)

const resultsSheet = "Results"

type resultService struct {
	repo   repositories.Repository
	logger *slog.Logger
	ops    *ServiceLogger
}

func NewResultService(repo repositories.Repository, logger *slog.Logger) ResultService {
	return &resultService{
		repo:   repo,
		logger: logger,
		ops:    NewServiceLogger(logger, "results"),
	}
}

// GetReview returns the caller's own graded submission for the quiz.
func (s *resultService) GetReview(ctx context.Context, quizID uint, userID string) (review *session.Review, err error) {
	defer func(start time.Time) { s.ops.LogOperation(ctx, "get_review", userID, quizID, start, err) }(time.Now())

	if _, err := s.repo.Quiz().GetByID(ctx, quizID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	sub, err := s.repo.Submission().FindByQuizAndStudent(ctx, quizID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}

	questions, err := s.repo.Question().ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}

	return session.BuildReview(questions, sub), nil
}

// ExportResults renders every submission of a quiz as an .xlsx sheet. Only the quiz owner may export.
func (s *resultService) ExportResults(ctx context.Context, quizID uint, userID string) (data []byte, err error) {
	defer func(start time.Time) { s.ops.LogOperation(ctx, "export_results", userID, quizID, start, err) }(time.Now())

	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz.CreatedBy != userID {
		return nil, NewPermissionError(userID, quizID, "quiz", "export_results", "not the quiz owner")
	}

	total, err := s.repo.Question().CountByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}
	submissions, err := s.repo.Submission().ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submissions: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(resultsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headers := []interface{}{"Student ID", "Score", "Total", "Percentage", "Submitted At"}
	if err := f.SetSheetRow(resultsSheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write Excel header: %w", err)
	}

	for i, sub := range submissions {
		percentage := 0.0
		if total > 0 {
			percentage = float64(sub.Score) * 100 / float64(total)
		}
		row := []interface{}{
			sub.StudentID,
			sub.Score,
			total,
			fmt.Sprintf("%.1f", percentage),
			sub.SubmittedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(resultsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, fmt.Errorf("failed to write Excel row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported quiz results", "quiz_id", quizID, "rows", len(submissions))
	return buf.Bytes(), nil
}

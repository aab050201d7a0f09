package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
	"github.com/xuri/excelize/v2"
)

const (
	headerQuestion      = "question"
	headerCorrectAnswer = "correct answer"
	headerOptionPrefix  = "option "
)

type quizService struct {
	repo        repositories.Repository
	publisher   events.EventPublisher
	invalidator CatalogInvalidator
	logger      *slog.Logger
	validator   *validator.Validator
	ops         *ServiceLogger
}

func NewQuizService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	invalidator CatalogInvalidator,
	logger *slog.Logger,
	validator *validator.Validator,
) QuizService {
	return &quizService{
		repo:        repo,
		publisher:   publisher,
		invalidator: invalidator,
		logger:      logger,
		validator:   validator,
		ops:         NewServiceLogger(logger, "quizzes"),
	}
}

func (s *quizService) CreateQuiz(ctx context.Context, courseID string, req *CreateQuizRequest, creatorID string) (quiz *models.Quiz, err error) {
	defer func(start time.Time) {
		var id uint
		if quiz != nil {
			id = quiz.ID
		}
		s.ops.LogOperation(ctx, "create_quiz", creatorID, id, start, err)
	}(time.Now())

	courseID = strings.TrimSpace(courseID)
	s.logger.Info("Creating quiz", "course_id", courseID, "creator_id", creatorID, "title", req.Title)

	if courseID == "" {
		return nil, ValidationErrors{*NewValidationError("course_id", "is required", courseID)}
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var errs ValidationErrors
	questions := make([]models.Question, 0, len(req.Questions))
	for i, q := range req.Questions {
		draft, err := s.validator.Question().DraftAndValidate(q.Question, q.Options, q.Answer, q.CorrectIndex)
		if err != nil {
			errs = append(errs, validator.ToValidationErrors(err).Prefix(fmt.Sprintf("questions[%d]", i))...)
			continue
		}
		questions = append(questions, newQuestion(draft, i+1))
	}
	if len(errs) > 0 {
		return nil, errs
	}

	quiz = &models.Quiz{
		CourseID:    courseID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Duration:    req.Duration,
		CreatedBy:   creatorID,
		Questions:   questions,
	}
	if err := s.repo.Quiz().Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	s.invalidate(ctx, quiz)
	s.publishCreated(ctx, quiz)

	s.logger.Info("Quiz created successfully", "quiz_id", quiz.ID, "question_count", len(questions))
	return quiz, nil
}

// GetQuiz returns the quiz with its questions in display order.
func (s *quizService) GetQuiz(ctx context.Context, id uint) (*models.Quiz, error) {
	quiz, err := s.getQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	questions, err := s.repo.Question().ListByQuiz(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	quiz.Questions = make([]models.Question, 0, len(questions))
	for _, q := range questions {
		quiz.Questions = append(quiz.Questions, *q)
	}
	return quiz, nil
}

func (s *quizService) getQuiz(ctx context.Context, id uint) (*models.Quiz, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return quiz, nil
}

func (s *quizService) ImportQuestionsFromExcel(ctx context.Context, quizID uint, reader io.Reader, userID string) (result *ImportResult, err error) {
	defer func(start time.Time) { s.ops.LogOperation(ctx, "import_questions", userID, quizID, start, err) }(time.Now())

	s.logger.Info("Starting Excel import", "quiz_id", quizID, "user_id", userID)

	quiz, err := s.getQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.CreatedBy != userID {
		return nil, NewPermissionError(userID, quizID, "quiz", "import_questions", "not the quiz owner")
	}

	// stored scores are counted against the question set at submit time
	submissions, err := s.repo.Submission().ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submissions: %w", err)
	}
	if len(submissions) > 0 {
		return nil, NewBusinessRuleError("quiz_has_submissions",
			"Questions cannot be added after students have submitted the quiz",
			map[string]interface{}{"quiz_id": quizID, "submissions": len(submissions)})
	}

	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, NewValidationError("file", "must be a readable .xlsx file", nil)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "Excel file has no sheets", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, NewValidationError("file", "Excel must have header row and at least one data row", len(rows))
	}

	layout, err := parseImportHeader(rows[0])
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Question().CountByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}

	result = &ImportResult{QuizID: quizID}
	var questions []*models.Question
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		result.TotalRows++

		draft, err := s.parseExcelRow(row, layout)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: i + 2, Errors: validator.ToValidationErrors(err)})
			result.ErrorCount++
			continue
		}
		q := newQuestion(draft, int(existing)+len(questions)+1)
		q.QuizID = quizID
		questions = append(questions, &q)
		result.SuccessCount++
	}

	if len(questions) > 0 {
		if err := s.repo.Question().CreateBatch(ctx, questions); err != nil {
			return nil, fmt.Errorf("failed to save questions: %w", err)
		}
		s.invalidate(ctx, quiz)
	}
	result.Questions = questions

	s.logger.Info("Excel import completed",
		"quiz_id", quizID,
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount)

	return result, nil
}

type importLayout struct {
	question int
	answer   int
	options  []int
}

func parseImportHeader(header []string) (*importLayout, error) {
	layout := &importLayout{question: -1, answer: -1}
	type optionCol struct {
		label string
		index int
	}
	var optionCols []optionCol

	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		switch {
		case name == headerQuestion:
			layout.question = i
		case name == headerCorrectAnswer:
			layout.answer = i
		case strings.HasPrefix(name, headerOptionPrefix):
			optionCols = append(optionCols, optionCol{label: strings.TrimPrefix(name, headerOptionPrefix), index: i})
		}
	}

	if layout.question < 0 || layout.answer < 0 || len(optionCols) < 2 {
		return nil, NewValidationError("file",
			"header must be: Question | Option A | Option B | Option C | Option D | Correct Answer", header)
	}

	// Option A before Option B regardless of column order
	sort.SliceStable(optionCols, func(a, b int) bool { return optionCols[a].label < optionCols[b].label })
	for _, c := range optionCols {
		layout.options = append(layout.options, c.index)
	}
	return layout, nil
}

func (s *quizService) parseExcelRow(row []string, layout *importLayout) (validator.QuestionDraft, error) {
	options := make([]string, len(layout.options))
	for i, col := range layout.options {
		options[i] = strings.TrimSpace(cell(row, col))
	}
	answer, index := validator.ParseOptionRef(cell(row, layout.answer), options)
	return s.validator.Question().DraftAndValidate(cell(row, layout.question), options, answer, index)
}

func (s *quizService) invalidate(ctx context.Context, quiz *models.Quiz) {
	if s.invalidator != nil {
		s.invalidator.InvalidateQuiz(ctx, quiz)
	}
}

func (s *quizService) publishCreated(ctx context.Context, quiz *models.Quiz) {
	if s.publisher == nil {
		return
	}
	event := events.NewQuizCreatedEvent(events.QuizCreatedEvent{
		QuizID:        quiz.ID,
		CourseID:      quiz.CourseID,
		Title:         quiz.Title,
		Duration:      quiz.Duration,
		QuestionCount: len(quiz.Questions),
		CreatedBy:     quiz.CreatedBy,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish quiz created event", "quiz_id", quiz.ID, "error", err)
	}
}

func newQuestion(draft validator.QuestionDraft, position int) models.Question {
	return models.Question{
		Text:          draft.Text,
		Options:       draft.Options,
		CorrectAnswer: draft.Answer,
		Position:      position,
	}
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

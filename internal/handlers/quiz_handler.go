package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/SAP-F-2025/quiz-service/internal/middleware"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type QuizHandler struct {
	BaseHandler
	quizService   services.QuizService
	resultService services.ResultService
}

func NewQuizHandler(quizService services.QuizService, resultService services.ResultService, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler:   NewBaseHandler(logger),
		quizService:   quizService,
		resultService: resultService,
	}
}

// CreateQuiz creates a quiz with its questions in a course
// @Router /courses/{course_id}/quizzes [post]
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	courseID := ParseStringIDParam(c, "course_id")
	if courseID == "" {
		return
	}

	var req services.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}
	h.LogRequest(c, "Creating quiz", "course_id", courseID, "title", req.Title)

	quiz, err := h.quizService.CreateQuiz(c.Request.Context(), courseID, &req, middleware.IdentityFrom(c).UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "Quiz created successfully", quiz)
}

// GetQuiz returns a quiz. Correct answers are only included for its author.
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	quiz, err := h.quizService.GetQuiz(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if quiz.CreatedBy != middleware.IdentityFrom(c).UserID {
		for i := range quiz.Questions {
			quiz.Questions[i].CorrectAnswer = ""
		}
	}
	c.JSON(http.StatusOK, quiz)
}

// ImportQuestions appends questions from an uploaded .xlsx file
// @Router /quizzes/{id}/questions/import [post]
func (h *QuizHandler) ImportQuestions(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "File is required", err)
		return
	}
	if strings.ToLower(filepath.Ext(header.Filename)) != ".xlsx" {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", nil, services.ValidationErrors{
			*services.NewValidationError("file", "must be an .xlsx file", header.Filename),
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Failed to read uploaded file", err)
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing questions", "quiz_id", id, "filename", header.Filename)

	result, err := h.quizService.ImportQuestionsFromExcel(c.Request.Context(), id, file, middleware.IdentityFrom(c).UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Import completed", result)
}

// ExportResults downloads every submission of a quiz as .xlsx
// @Router /quizzes/{id}/results/export [get]
func (h *QuizHandler) ExportResults(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	data, err := h.resultService.ExportResults(c.Request.Context(), id, middleware.IdentityFrom(c).UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="quiz-%d-results.xlsx"`, id))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// GetReview returns the caller's graded submission
// @Router /quizzes/{id}/review [get]
func (h *QuizHandler) GetReview(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	review, err := h.resultService.GetReview(c.Request.Context(), id, middleware.IdentityFrom(c).UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

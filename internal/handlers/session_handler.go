package handlers

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/quiz-service/internal/middleware"
	"github.com/SAP-F-2025/quiz-service/internal/session"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	BaseHandler
	manager *session.Manager
}

func NewSessionHandler(manager *session.Manager, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		manager:     manager,
	}
}

type SelectQuizRequest struct {
	QuizID uint `json:"quiz_id" binding:"required"`
}

type SelectAnswerRequest struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Option     string `json:"option" binding:"required"`
}

type OpenSessionResponse struct {
	SessionID string           `json:"session_id"`
	Session   session.Snapshot `json:"session"`
}

type SubmitResponse struct {
	Result  *session.SubmitResult `json:"result"`
	Session session.Snapshot      `json:"session"`
}

// OpenSession starts a session on a course and loads its quiz catalog
// @Router /courses/{course_id}/sessions [post]
func (h *SessionHandler) OpenSession(c *gin.Context) {
	courseID := ParseStringIDParam(c, "course_id")
	if courseID == "" {
		return
	}
	h.LogRequest(c, "Opening quiz session", "course_id", courseID)

	id, ctrl, err := h.manager.Open(c.Request.Context(), middleware.IdentityFrom(c), courseID)
	if err != nil {
		status, message := sessionErrorStatus(err)
		h.RespondWithError(c, status, message, err)
		return
	}

	c.JSON(http.StatusCreated, OpenSessionResponse{SessionID: id, Session: ctrl.Snapshot()})
}

// GetSession returns the current session snapshot
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// SelectQuiz makes a catalog quiz active and loads its questions
// @Router /sessions/{id}/quiz [post]
func (h *SessionHandler) SelectQuiz(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	var req SelectQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}
	h.LogRequest(c, "Selecting quiz", "quiz_id", req.QuizID)

	err := ctrl.SelectQuiz(c.Request.Context(), req.QuizID)
	// An empty quiz is a notice on the snapshot, not a failed request
	if err != nil && !errors.Is(err, session.ErrNoQuestions) {
		h.respondSessionError(c, ctrl, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// ClearSelection goes back to the course catalog
// @Router /sessions/{id}/quiz [delete]
func (h *SessionHandler) ClearSelection(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	ctrl.ClearSelection()
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// SelectAnswer records the chosen option for one question
// @Router /sessions/{id}/answers [put]
func (h *SessionHandler) SelectAnswer(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	var req SelectAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	if err := ctrl.SelectAnswer(req.QuestionID, req.Option); err != nil {
		h.respondSessionError(c, ctrl, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// Submit grades and stores the answer set
// @Router /sessions/{id}/submit [post]
func (h *SessionHandler) Submit(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	h.LogRequest(c, "Submitting quiz")

	result, err := ctrl.Submit(c.Request.Context())
	if err != nil {
		h.respondSessionError(c, ctrl, err)
		return
	}
	c.JSON(http.StatusOK, SubmitResponse{Result: result, Session: ctrl.Snapshot()})
}

// CloseSession stops the session timer and discards the session
// @Router /sessions/{id} [delete]
func (h *SessionHandler) CloseSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	if err := h.manager.Close(id, middleware.IdentityFrom(c)); err != nil {
		status, message := sessionErrorStatus(err)
		h.RespondWithError(c, status, message, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) controller(c *gin.Context) (*session.Controller, bool) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return nil, false
	}
	ctrl, err := h.manager.Get(id, middleware.IdentityFrom(c))
	if err != nil {
		status, message := sessionErrorStatus(err)
		h.RespondWithError(c, status, message, err)
		return nil, false
	}
	return ctrl, true
}

// respondSessionError reports err with the session snapshot, notice included, as details
func (h *SessionHandler) respondSessionError(c *gin.Context, ctrl *session.Controller, err error) {
	status, message := sessionErrorStatus(err)
	h.RespondWithError(c, status, message, err, ctrl.Snapshot())
}

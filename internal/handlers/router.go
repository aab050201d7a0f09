package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/quiz-service/internal/middleware"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/session"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	sessionHandler *SessionHandler
	quizHandler    *QuizHandler
	tokenParser    middleware.TokenParser
	logger         utils.Logger
}

func NewHandlerManager(
	manager *session.Manager,
	quizService services.QuizService,
	resultService services.ResultService,
	tokenParser middleware.TokenParser,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		sessionHandler: NewSessionHandler(manager, logger),
		quizHandler:    NewQuizHandler(quizService, resultService, logger),
		tokenParser:    tokenParser,
		logger:         logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(hm.tokenParser, hm.logger))
	{
		// Taking quizzes. Anonymous callers may browse; submit needs a user.
		v1.POST("/courses/:course_id/sessions", hm.sessionHandler.OpenSession)

		sessions := v1.Group("/sessions")
		{
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.DELETE("/:id", hm.sessionHandler.CloseSession)
			sessions.POST("/:id/quiz", hm.sessionHandler.SelectQuiz)
			sessions.DELETE("/:id/quiz", hm.sessionHandler.ClearSelection)
			sessions.PUT("/:id/answers", hm.sessionHandler.SelectAnswer)
			sessions.POST("/:id/submit", hm.sessionHandler.Submit)
		}

		authenticated := v1.Group("")
		authenticated.Use(middleware.RequireUser())
		{
			authenticated.POST("/courses/:course_id/quizzes", hm.quizHandler.CreateQuiz)

			quizzes := authenticated.Group("/quizzes")
			{
				quizzes.GET("/:id", hm.quizHandler.GetQuiz)
				quizzes.POST("/:id/questions/import", hm.quizHandler.ImportQuestions)
				quizzes.GET("/:id/results/export", hm.quizHandler.ExportResults)
				quizzes.GET("/:id/review", hm.quizHandler.GetReview)
			}
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "quiz-service",
	})
}

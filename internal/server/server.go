// Package server exposes the workflow engine's operation surface as a
// JSON API over HTTP.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chitragupt/chitragupt/internal/common"
	"github.com/chitragupt/chitragupt/internal/engine"
)

// Config holds server settings.
type Config struct {
	Addr      string
	JWTSecret string
	TokenTTL  time.Duration
}

// Server wires the workflow engine to HTTP handlers.
type Server struct {
	engine *engine.WorkflowEngine
	config Config
}

// New creates a new API server.
func New(workflowEngine *engine.WorkflowEngine, config Config) *Server {
	if config.TokenTTL <= 0 {
		config.TokenTTL = 24 * time.Hour
	}
	return &Server{
		engine: workflowEngine,
		config: config,
	}
}

// Router builds the gin router with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/api/register", s.handleRegister)
	router.POST("/api/login", s.handleLogin)

	api := router.Group("/api", authMiddleware(s.config.JWTSecret))
	{
		api.GET("/accounts/:id", s.handleGetAccount)
		api.POST("/accounts/:id/credits", s.handleAddCredits)
		api.GET("/auditors", s.handleListAuditors)

		api.POST("/contracts", s.handleUpload)
		api.GET("/contracts", s.handleListContracts)
		api.GET("/contracts/:id", s.handleGetContract)
		api.DELETE("/contracts/:id", s.handleDeleteContract)
		api.POST("/contracts/:id/review-requests", s.handleRequestReview)
		api.POST("/contracts/:id/finalize", s.handleFinalizeReview)
		api.POST("/contracts/:id/approve", s.handleApproveCompletion)
		api.POST("/contracts/:id/revisions", s.handleRequestRevisions)
		api.POST("/contracts/:id/notes", s.handleAddNote)
		api.GET("/contracts/:id/chat", s.handleListChat)
		api.POST("/contracts/:id/chat", s.handleSendChat)

		api.GET("/review-queue", s.handleReviewQueue)
		api.POST("/review-requests/:id/accept", s.handleAcceptReview)
		api.POST("/review-requests/:id/reject", s.handleRejectReview)
	}

	return router
}

// Run starts the HTTP server and blocks.
func (s *Server) Run() error {
	return s.Router().Run(s.config.Addr)
}

// statusForError maps the engine's error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, common.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrDuplicateEntry),
		errors.Is(err, common.ErrConflict),
		errors.Is(err, common.ErrMaxRetries):
		return http.StatusConflict
	case errors.Is(err, common.ErrRequestNotPending),
		errors.Is(err, common.ErrAnalysisNotReady),
		errors.Is(err, common.ErrInvalidStateTransition),
		errors.Is(err, common.ErrAuditorAtCapacity):
		return http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrAnalysisUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		common.LogError(err, "Request failed", common.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": status,
		})
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chitragupt/chitragupt/internal/engine"
	"github.com/chitragupt/chitragupt/internal/model"
)

type registerRequest struct {
	DisplayName        string `json:"displayName"`
	Email              string `json:"email" binding:"required"`
	Role               string `json:"role" binding:"required"`
	MaxActiveContracts int    `json:"maxActiveContracts"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := s.engine.RegisterAccount(c.Request.Context(), engine.RegisterParams{
		DisplayName:        req.DisplayName,
		Email:              req.Email,
		Role:               model.Role(req.Role),
		MaxActiveContracts: req.MaxActiveContracts,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

type loginRequest struct {
	Email string `json:"email" binding:"required"`
}

// handleLogin issues a bearer token for a registered account. Real
// credential verification is an external concern; the engine only
// needs an authenticated identity.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := s.engine.LookupAccountByEmail(c.Request.Context(), req.Email)
	if err != nil {
		abortWithError(c, err)
		return
	}

	token, expiresAt, err := GenerateToken(account.ID, account.Role, s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": expiresAt,
		"accountId": account.ID,
		"role":      account.Role,
	})
}

func (s *Server) handleGetAccount(c *gin.Context) {
	account, err := s.engine.GetAccount(c.Request.Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

type addCreditsRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

func (s *Server) handleAddCredits(c *gin.Context) {
	var req addCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.engine.AddCredits(c.Request.Context(), identityFrom(c), c.Param("id"), req.Amount); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListAuditors(c *gin.Context) {
	auditors, err := s.engine.ListAuditors(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, auditors)
}

type uploadRequest struct {
	Title    string `json:"title" binding:"required"`
	FileName string `json:"fileName"`
	Document string `json:"document" binding:"required"`
}

func (s *Server) handleUpload(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contract, err := s.engine.UploadAndAnalyze(c.Request.Context(), identityFrom(c),
		req.Title, req.FileName, []byte(req.Document))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (s *Server) handleListContracts(c *gin.Context) {
	contracts, err := s.engine.ListContracts(c.Request.Context(), identityFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (s *Server) handleGetContract(c *gin.Context) {
	contract, err := s.engine.GetContract(c.Request.Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (s *Server) handleDeleteContract(c *gin.Context) {
	if err := s.engine.DeleteContract(c.Request.Context(), identityFrom(c), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type requestReviewRequest struct {
	AuditorID      string `json:"auditorId" binding:"required"`
	ClientConcerns string `json:"clientConcerns"`
	Budget         int64  `json:"budget"`
	ShareSummary   bool   `json:"shareSummary"`
}

func (s *Server) handleRequestReview(c *gin.Context) {
	var req requestReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := s.engine.RequestReview(c.Request.Context(), identityFrom(c), engine.ReviewRequestParams{
		ContractID:     c.Param("id"),
		AuditorID:      req.AuditorID,
		ClientConcerns: req.ClientConcerns,
		Budget:         req.Budget,
		ShareSummary:   req.ShareSummary,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

func (s *Server) handleReviewQueue(c *gin.Context) {
	requests, err := s.engine.ListReviewQueue(c.Request.Context(), identityFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (s *Server) handleAcceptReview(c *gin.Context) {
	if err := s.engine.AcceptReview(c.Request.Context(), identityFrom(c), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRejectReview(c *gin.Context) {
	if err := s.engine.RejectReview(c.Request.Context(), identityFrom(c), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type finalizeRequest struct {
	Verdict  string `json:"verdict" binding:"required"`
	Feedback string `json:"feedback" binding:"required"`
}

func (s *Server) handleFinalizeReview(c *gin.Context) {
	var req finalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := s.engine.FinalizeReview(c.Request.Context(), identityFrom(c),
		c.Param("id"), model.Verdict(req.Verdict), req.Feedback)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleApproveCompletion(c *gin.Context) {
	if err := s.engine.ApproveCompletion(c.Request.Context(), identityFrom(c), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRequestRevisions(c *gin.Context) {
	if err := s.engine.RequestRevisions(c.Request.Context(), identityFrom(c), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type noteRequest struct {
	Text string `json:"text" binding:"required"`
}

func (s *Server) handleAddNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.engine.AddReviewNote(c.Request.Context(), identityFrom(c), c.Param("id"), req.Text); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListChat(c *gin.Context) {
	messages, err := s.engine.ListChatMessages(c.Request.Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

type chatRequest struct {
	Text string `json:"text" binding:"required"`
}

func (s *Server) handleSendChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := s.engine.SendChatMessage(c.Request.Context(), identityFrom(c), c.Param("id"), req.Text)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

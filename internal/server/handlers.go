package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kairi/gemini/internal/catalog"
	"github.com/Kairi/gemini/internal/gateway"
)

// TimestampFormat matches JavaScript's Date.toISOString.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Message string         `json:"message"`
	Model   string         `json:"model,omitempty"`
	History []gateway.Turn `json:"history,omitempty"`
}

// ChatResponse is returned by POST /api/chat
type ChatResponse struct {
	Response  string `json:"response"`
	Model     string `json:"model"`
	Timestamp string `json:"timestamp"`
}

// APIKeyRequest is the body of POST /api/config/api-key
type APIKeyRequest struct {
	APIKey string `json:"apiKey"`
}

func errorJSON(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Gemini API Client Server Running"})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
}

func (s *Server) handleModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": catalog.List()})
}

func (s *Server) handleModel(c *gin.Context) {
	d, ok := catalog.Describe(c.Param("id"))
	if !ok {
		errorJSON(c, http.StatusNotFound, "Model not found")
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) handleChatMethod(c *gin.Context) {
	c.Header("Allow", http.MethodPost)
	errorJSON(c, http.StatusMethodNotAllowed, "Use POST to send a chat message")
}

func (s *Server) handleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		errorJSON(c, http.StatusBadRequest, "Message is required")
		return
	}
	if req.Model == "" {
		req.Model = catalog.LegacyModel
	}

	cfg, err := s.store.Load()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load configuration")
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	params := gateway.GenerationParams{Temperature: cfg.Temperature, MaxTokens: cfg.MaxTokens}

	gw := s.newGateway(c.GetHeader(APIKeyHeader))
	ex, err := gw.Exchange(c.Request.Context(), req.History, req.Message, req.Model, params)
	if err != nil {
		s.log.Warn().Err(err).Str("model", req.Model).Str(requestIDKey, c.GetString(requestIDKey)).Msg("chat failed")
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Response:  ex.ResponseText,
		Model:     ex.ModelID,
		Timestamp: ex.Timestamp.UTC().Format(TimestampFormat),
	})
}

func (s *Server) handleSetAPIKey(c *gin.Context) {
	var req APIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.APIKey == "" {
		errorJSON(c, http.StatusBadRequest, "API Key is required")
		return
	}
	if _, err := s.store.Load(); err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.SetAPIKey(req.APIKey); err != nil {
		s.log.Error().Err(err).Msg("failed to save API key")
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "API Key updated successfully"})
}

func (s *Server) handleConfig(c *gin.Context) {
	cfg, err := s.store.Load()
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, cfg)
}

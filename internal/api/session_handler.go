package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/headlines-digest-api/internal/service"
	"github.com/rs/zerolog"
)

// SessionHandler exposes read-only views of session state
type SessionHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(services *service.Services, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		services: services,
		log:      log.With().Str("handler", "session").Logger(),
	}
}

// GetPreferences handles GET /v1/sessions/:session_id/preferences
func (h *SessionHandler) GetPreferences(c *gin.Context) {
	sessionID := c.Param("session_id")
	if !validSessionID(sessionID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session id"})
		return
	}

	prefs := h.services.Digest.Preferences(c.Request.Context(), sessionID)
	c.JSON(http.StatusOK, gin.H{
		"session_id":  sessionID,
		"preferences": prefs,
	})
}

// GetSeen handles GET /v1/sessions/:session_id/seen
func (h *SessionHandler) GetSeen(c *gin.Context) {
	sessionID := c.Param("session_id")
	if !validSessionID(sessionID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session id"})
		return
	}

	seen := h.services.Digest.Seen(c.Request.Context(), sessionID)
	if seen.IDs == nil {
		seen.IDs = []int64{}
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"seen":       seen,
		"count":      len(seen.IDs),
	})
}

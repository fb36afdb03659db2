package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/headlines-digest-api/internal/config"
	"github.com/headlines-digest-api/internal/models"
	"github.com/headlines-digest-api/internal/service"
	"github.com/rs/zerolog"
)

// maxMessageBytes bounds the request body of POST /v1/chat
const maxMessageBytes = 64 << 10

// ChatHandler handles the digest endpoint
type ChatHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "chat").Logger(),
	}
}

// Digest handles POST /v1/chat
// Accepts a plain-text message, or {"message": "..."} with a JSON content type
func (h *ChatHandler) Digest(c *gin.Context) {
	sessionID := resolveSession(c, h.cfg.Session.CookieSecure)

	message, err := readMessage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.services.Digest.Run(c.Request.Context(), models.DigestRequest{
		SessionID: sessionID,
		Message:   message,
	})
	if errors.Is(err, service.ErrEmptyMessage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("Digest failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func readMessage(c *gin.Context) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxMessageBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", errors.New("message is too large")
		}
		return "", errors.New("failed to read request body")
	}

	if c.ContentType() != gin.MIMEJSON {
		return string(body), nil
	}

	var req models.DigestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", errors.New("invalid JSON body")
	}
	return req.Message, nil
}

package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionHeader carries the session id in both directions
	SessionHeader = "X-Session-ID"
	// SessionCookie is the cookie fallback for clients that keep no header state
	SessionCookie = "sid"

	sessionCookieMaxAge = 30 * 24 * 60 * 60
	maxSessionIDLength  = 128
)

// resolveSession returns the caller's session id: the X-Session-ID header,
// then the sid cookie, then a freshly minted id which is also set as a cookie.
// The resolved id is always echoed in the X-Session-ID response header.
func resolveSession(c *gin.Context, secureCookie bool) string {
	if id := strings.TrimSpace(c.GetHeader(SessionHeader)); validSessionID(id) {
		c.Header(SessionHeader, id)
		return id
	}
	if id, err := c.Cookie(SessionCookie); err == nil && validSessionID(id) {
		c.Header(SessionHeader, id)
		return id
	}

	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, sessionCookieMaxAge, "/", "", secureCookie, false)
	c.Header(SessionHeader, id)
	return id
}

func validSessionID(id string) bool {
	if id == "" || len(id) > maxSessionIDLength {
		return false
	}
	for _, r := range id {
		if r <= ' ' || r == 0x7f || r == ';' || r == ',' {
			return false
		}
	}
	return true
}

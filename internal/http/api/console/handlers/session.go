package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/ModelMarket/internal/session"
	log "github.com/sirupsen/logrus"
)

// SessionHandler reports the stored session.
type SessionHandler struct {
	sess SessionReader
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(sess SessionReader) *SessionHandler {
	return &SessionHandler{sess: sess}
}

// Get returns whether a session is active, the cached user, and the token claims.
func (h *SessionHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	active := h.sess.IsActive(ctx)
	if !active {
		c.JSON(http.StatusOK, gin.H{"active": false, "user": nil, "claims": nil})
		return
	}

	claims, errClaims := h.sess.Claims(ctx)
	if errClaims != nil {
		if !errors.Is(errClaims, session.ErrNoToken) {
			log.WithError(errClaims).Debug("console: token claims unavailable")
		}
		claims = nil
	}
	c.JSON(http.StatusOK, gin.H{
		"active": true,
		"user":   h.sess.CurrentUser(ctx),
		"claims": claims,
	})
}

package console

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/router-for-me/ModelMarket/internal/http/api/console/handlers"
	"github.com/router-for-me/ModelMarket/internal/ratelimit"
	log "github.com/sirupsen/logrus"
)

const (
	headerRequestID = "X-Request-ID"
	contextKeyReqID = "requestID"
)

// requestIDMiddleware tags each request with an id, reusing a well-formed inbound one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if _, errParse := uuid.Parse(requestID); errParse != nil {
			requestID = uuid.NewString()
		}
		c.Set(contextKeyReqID, requestID)
		c.Header(headerRequestID, requestID)
		c.Next()
	}
}

// requestLogMiddleware logs one line per request.
func requestLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"request_id": c.GetString(contextKeyReqID),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		})
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("console request")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("console request")
		default:
			entry.Debug("console request")
		}
	}
}

// rateLimitMiddleware enforces the per-client limit. Limiter errors fail open.
func rateLimitMiddleware(limiter *ratelimit.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		result, errAllow := limiter.AllowClient(c.Request.Context(), c.ClientIP())
		if errAllow != nil {
			log.WithError(errAllow).Warn("console: rate limit check failed")
			c.Next()
			return
		}
		if result.Limit > 0 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			c.Header("X-RateLimit-Reset", strconv.FormatInt(result.Reset.Unix(), 10))
		}
		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// sessionRequiredMiddleware rejects requests when no session is stored.
func sessionRequiredMiddleware(sess handlers.SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sess.IsActive(c.Request.Context()) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
			return
		}
		c.Next()
	}
}

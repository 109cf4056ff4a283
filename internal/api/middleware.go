// ABOUTME: gin middleware for CORS, caller identity from the upstream proxy, and admin access.
// ABOUTME: Authentication itself happens upstream; this layer only reads what it was given.
package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/2389-research/revibe/internal/logger"
)

// Header names set by the authenticating proxy and by admin callers.
const (
	HeaderUserID     = "X-User-ID"
	HeaderUserName   = "X-User-Name"
	HeaderAdminToken = "X-Admin-Token"
)

const (
	ctxUserID   = "revibe.user_id"
	ctxUserName = "revibe.user_name"
)

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// CORS allows the configured front-end origins.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = defaultOrigins
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", HeaderUserID, HeaderUserName, HeaderAdminToken},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// RequestLogger logs one line per request.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"user_id", c.GetString(ctxUserID),
		)
	}
}

// RequireUser rejects requests without a caller id.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if userID == "" {
			RespondError(c, http.StatusUnauthorized, "unauthenticated", errors.New("missing "+HeaderUserID+" header"))
			return
		}
		c.Set(ctxUserID, userID)
		c.Set(ctxUserName, strings.TrimSpace(c.GetHeader(HeaderUserName)))
		c.Next()
	}
}

// RequireAdmin checks the admin token. An empty configured token disables the route.
func RequireAdmin(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			RespondError(c, http.StatusForbidden, "admin_disabled", errors.New("admin routes are disabled"))
			return
		}
		got := c.GetHeader(HeaderAdminToken)
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			RespondError(c, http.StatusForbidden, "forbidden", errors.New("invalid admin token"))
			return
		}
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func userName(c *gin.Context) string {
	return c.GetString(ctxUserName)
}

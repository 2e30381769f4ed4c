package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LuxeDrive-Rentals/service-rental/pkg/auth"
)

const (
	ctxKeyUserID   = "auth_user_id"
	ctxKeyUserName = "auth_user_name"
	ctxKeyUserRole = "auth_user_role"

	headerRequestID = "X-Request-ID"
)

// AuthMiddleware verifies the Bearer token and stores the caller's identity
// in the request context.
func AuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing bearer token"},
			})
			return
		}

		claims, err := jwtManager.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "invalid or expired token"},
			})
			return
		}

		c.Set(ctxKeyUserID, claims.UserID)
		c.Set(ctxKeyUserName, claims.Name)
		c.Set(ctxKeyUserRole, claims.Role)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated caller has the given role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actual, ok := GetUserRole(c)
		if !ok || actual != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"code": "FORBIDDEN", "message": "insufficient role"},
			})
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user's ID from the request context.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxKeyUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetUserName returns the authenticated user's display name.
func GetUserName(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxKeyUserName)
	if !exists {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}

// GetUserRole returns the authenticated user's role.
func GetUserRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxKeyUserRole)
	if !exists {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}

// RequestIDMiddleware ensures every request carries an X-Request-ID.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(headerRequestID, requestID)
		c.Set(headerRequestID, requestID)
		c.Next()
	}
}

// LoggerMiddleware logs one structured line per request.
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(headerRequestID)),
		)
	}
}

// RecoveryMiddleware converts panics into 500 responses.
func RecoveryMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   gin.H{"code": "INTERNAL", "message": "internal server error"},
				})
			}
		}()
		c.Next()
	}
}

// CORSMiddleware applies the platform CORS policy.
func CORSMiddleware() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", headerRequestID)
	return cors.New(cfg)
}

// SecurityHeadersMiddleware sets standard security response headers.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}

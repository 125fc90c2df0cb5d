package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pathakanu/salaahTracker/internal/auth"
	"github.com/pathakanu/salaahTracker/internal/model"
)

const (
	sessionCookie  = "session"
	currentUserKey = "currentUser"
	claimsKey      = "claims"
)

// requestLogger writes one structured line per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		event := s.logger.Info()
		if status := c.Writer.Status(); status >= 500 {
			event = s.logger.Error()
		} else if status >= 400 {
			event = s.logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(started)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

// requireAuth accepts "Authorization: Bearer <token>" or the session cookie,
// rejects revoked tokens and stores the user on the context.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			abort(c, unauthorized("missing credentials"))
			return
		}

		claims, err := auth.ParseToken(tokenString, s.secret)
		if err != nil {
			abort(c, unauthorized("invalid token"))
			return
		}

		revoked, err := s.revoker.Revoked(c.Request.Context(), claims.ID)
		if err != nil {
			s.logger.Error().Err(err).Msg("check token revocation")
			abort(c, internalError())
			return
		}
		if revoked {
			abort(c, unauthorized("session has ended"))
			return
		}

		user, err := s.store.UserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			abort(c, unauthorized("user not found"))
			return
		}

		c.Set(currentUserKey, user)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		return cookie
	}
	return ""
}

func abort(c *gin.Context, e *Error) {
	c.AbortWithStatusJSON(e.Code, gin.H{"error": e.Message})
}

func currentUser(c *gin.Context) (*model.User, bool) {
	u, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := u.(*model.User)
	return user, ok
}

func currentClaims(c *gin.Context) (auth.Claims, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return auth.Claims{}, false
	}
	claims, ok := v.(auth.Claims)
	return claims, ok
}

package server

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/pathakanu/salaahTracker/internal/auth"
	"github.com/pathakanu/salaahTracker/internal/model"
	"github.com/pathakanu/salaahTracker/internal/store"
)

const minUsernameLength = 3

type credentialsRequest struct {
	Username string `form:"username" json:"username" binding:"required,min=3,max=64"`
	Password string `form:"password" json:"password" binding:"required,min=6"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// POST /api/register
func (s *Server) register(c *gin.Context) {
	var request credentialsRequest
	if err := c.ShouldBind(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	request.Username = strings.TrimSpace(request.Username)
	if utf8.RuneCountInString(request.Username) < minUsernameLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username must be at least 3 characters"})
		return
	}

	hashed, err := auth.HashPassword(request.Password)
	if err != nil {
		s.logger.Error().Err(err).Str("username", request.Username).Msg("hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalError().Message})
		return
	}

	user, err := s.store.CreateUser(c.Request.Context(), request.Username, hashed)
	if errors.Is(err, store.ErrUsernameTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already registered"})
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("username", request.Username).Msg("create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalError().Message})
		return
	}

	s.issueToken(c, http.StatusCreated, user)
}

// POST /api/login
func (s *Server) login(c *gin.Context) {
	var request credentialsRequest
	if err := c.ShouldBind(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.store.UserByUsername(c.Request.Context(), strings.TrimSpace(request.Username))
	if err != nil || !auth.CheckPassword(user.PasswordHash, request.Password) {
		s.logger.Warn().Str("username", request.Username).Msg("login failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidCredentials.Error()})
		return
	}

	s.issueToken(c, http.StatusOK, user)
}

func (s *Server) issueToken(c *gin.Context, status int, user *model.User) {
	token, err := auth.GenerateJWT(user.ID, s.secret, s.now())
	if err != nil {
		s.logger.Error().Err(err).Uint("user_id", user.ID).Msg("sign token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalError().Message})
		return
	}
	c.SetCookie(sessionCookie, token, int(auth.TokenLifetime/time.Second), "/", "", false, true)
	c.JSON(status, tokenResponse{Token: token})
}

// POST /api/logout
func (s *Server) logout(c *gin.Context, user *model.User) (any, *Error) {
	claims, ok := currentClaims(c)
	if !ok {
		return nil, unauthorized("unauthorized")
	}
	if err := s.revoker.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Sub(s.now())); err != nil {
		s.logger.Error().Err(err).Uint("user_id", user.ID).Msg("revoke token")
		return nil, internalError()
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	return gin.H{"status": "logged out"}, nil
}

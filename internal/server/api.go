package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pathakanu/salaahTracker/internal/model"
)

// Error is a handler failure rendered as {"error": Message} with status Code.
type Error struct {
	Code    int
	Message string
}

func badRequest(msg string) *Error { return &Error{Code: http.StatusBadRequest, Message: msg} }
func notFound(msg string) *Error { return &Error{Code: http.StatusNotFound, Message: msg} }
func unauthorized(msg string) *Error { return &Error{Code: http.StatusUnauthorized, Message: msg} }

func internalError() *Error {
	return &Error{Code: http.StatusInternalServerError, Message: "Something went wrong, please try again"}
}

type HandlerFunc func(c *gin.Context) (any, *Error)
type HandlerFuncWithAuth func(c *gin.Context, user *model.User) (any, *Error)

func resolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, apiErr := h(c)
		if apiErr != nil {
			c.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func resolveEndpointWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		result, apiErr := h(c, user)
		if apiErr != nil {
			c.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

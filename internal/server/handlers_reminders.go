package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const triggerHeader = "X-Trigger-Token"

// GET /api/reminders/check?city=&country=
func (s *Server) checkReminders(c *gin.Context) {
	if s.trigger != "" {
		given := c.GetHeader(triggerHeader)
		if subtle.ConstantTimeCompare([]byte(given), []byte(s.trigger)) != 1 {
			c.String(http.StatusUnauthorized, "missing or invalid "+triggerHeader)
			return
		}
	}

	city := strings.TrimSpace(c.Query("city"))
	country := strings.TrimSpace(c.Query("country"))
	if city == "" || country == "" {
		c.String(http.StatusBadRequest, "city and country query parameters are required")
		return
	}

	c.String(http.StatusOK, s.reminders.Check(c.Request.Context(), city, country))
}

package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pathakanu/salaahTracker/internal/model"
	"github.com/pathakanu/salaahTracker/internal/store"
)

type dayResponse struct {
	Date    string            `json:"date"`
	Prayers []model.PrayerLog `json:"prayers"`
}

type summaryResponse struct {
	From string             `json:"from"`
	To   string             `json:"to"`
	Days []store.DaySummary `json:"days"`
	Logs []model.PrayerLog  `json:"logs"`
}

type linkTelegramRequest struct {
	ChatID string `form:"chat_id" json:"chat_id" binding:"required"`
}

// GET /api/prayers/today
func (s *Server) prayersToday(c *gin.Context, user *model.User) (any, *Error) {
	date := store.Day(s.today())
	logs, err := s.store.PrayersForDay(c.Request.Context(), user.ID, date)
	if err != nil {
		s.logger.Error().Err(err).Uint("user_id", user.ID).Str("date", date).Msg("load prayers")
		return nil, internalError()
	}
	return dayResponse{Date: date, Prayers: logs}, nil
}

// PUT /api/prayers/complete/:id
func (s *Server) completePrayer(c *gin.Context, user *model.User) (any, *Error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return nil, badRequest("invalid prayer log id")
	}

	entry, err := s.store.MarkCompleted(c.Request.Context(), uint(id), user.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("prayer log not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Uint("user_id", user.ID).Uint64("log_id", id).Msg("mark completed")
		return nil, internalError()
	}
	return entry, nil
}

// GET /api/summary/monthly?year=&month=
func (s *Server) monthlySummary(c *gin.Context, user *model.User) (any, *Error) {
	today := s.today()
	year, err := intQuery(c, "year", today.Year())
	if err != nil {
		return nil, badRequest("invalid year")
	}
	month, err := intQuery(c, "month", int(today.Month()))
	if err != nil || month < 1 || month > 12 {
		return nil, badRequest("month must be between 1 and 12")
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.location)
	last := first.AddDate(0, 1, -1)
	return s.summarize(c, user, first, last)
}

// GET /api/summary/weekly?start=YYYY-MM-DD
func (s *Server) weeklySummary(c *gin.Context, user *model.User) (any, *Error) {
	start := s.today().AddDate(0, 0, -6)
	if raw := strings.TrimSpace(c.Query("start")); raw != "" {
		parsed, err := time.ParseInLocation(store.DateLayout, raw, s.location)
		if err != nil {
			return nil, badRequest("start must be formatted as YYYY-MM-DD")
		}
		start = parsed
	}
	return s.summarize(c, user, start, start.AddDate(0, 0, 6))
}

func (s *Server) summarize(c *gin.Context, user *model.User, from, to time.Time) (any, *Error) {
	fromDay, toDay := store.Day(from), store.Day(to)
	logs, err := s.store.PrayersBetween(c.Request.Context(), user.ID, fromDay, toDay)
	if err != nil {
		s.logger.Error().Err(err).Uint("user_id", user.ID).Str("from", fromDay).Str("to", toDay).Msg("load prayer range")
		return nil, internalError()
	}
	return summaryResponse{From: fromDay, To: toDay, Days: store.Summarize(logs), Logs: logs}, nil
}

// PUT /api/telegram
func (s *Server) linkTelegram(c *gin.Context, user *model.User) (any, *Error) {
	var request linkTelegramRequest
	if err := c.ShouldBind(&request); err != nil {
		return nil, badRequest(err.Error())
	}
	chatID := strings.TrimSpace(request.ChatID)
	if chatID == "" {
		return nil, badRequest("chat_id is required")
	}

	if err := s.store.LinkChat(c.Request.Context(), user.ID, chatID); err != nil {
		s.logger.Error().Err(err).Uint("user_id", user.ID).Msg("link chat")
		return nil, internalError()
	}
	return gin.H{"chat_id": chatID}, nil
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

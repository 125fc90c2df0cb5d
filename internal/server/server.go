package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pathakanu/salaahTracker/internal/auth"
	"github.com/pathakanu/salaahTracker/internal/store"
	"github.com/rs/zerolog"
)

// ReminderChecker runs one reminder cycle for a location and returns its log.
type ReminderChecker interface {
	Check(ctx context.Context, city, country string) string
}

// Server exposes the tracker API and the manual reminder trigger over HTTP.
type Server struct {
	store     *store.Store
	reminders ReminderChecker
	revoker   auth.Revoker
	secret    string
	trigger   string
	location  *time.Location
	now       func() time.Time
	logger    zerolog.Logger
	engine    *gin.Engine
}

// Option customises a Server.
type Option func(*Server)

// WithClock replaces the server's notion of now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithTriggerToken requires token in the X-Trigger-Token header of manual
// reminder checks. An empty token leaves the route open.
func WithTriggerToken(token string) Option {
	return func(s *Server) { s.trigger = token }
}

// New builds the gin engine and registers every route. location decides which
// calendar day "today" is for a user.
func New(st *store.Store, reminders ReminderChecker, revoker auth.Revoker, secret string, location *time.Location, logger zerolog.Logger, opts ...Option) *Server {
	if location == nil {
		location = time.Local
	}
	s := &Server{
		store:     st,
		reminders: reminders,
		revoker:   revoker,
		secret:    secret,
		location:  location,
		now:       time.Now,
		logger:    logger.With().Str("component", "http").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			triggerHeader,
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	r.GET("/health", resolveEndpoint(func(*gin.Context) (any, *Error) {
		return gin.H{"status": "ok"}, nil
	}))

	public := r.Group("/api")
	public.GET("/reminders/check", s.checkReminders)
	public.POST("/register", s.register)
	public.POST("/login", s.login)

	private := r.Group("/api")
	private.Use(s.requireAuth())
	private.POST("/logout", resolveEndpointWithAuth(s.logout))
	private.GET("/prayers/today", resolveEndpointWithAuth(s.prayersToday))
	private.PUT("/prayers/complete/:id", resolveEndpointWithAuth(s.completePrayer))
	private.GET("/summary/monthly", resolveEndpointWithAuth(s.monthlySummary))
	private.GET("/summary/weekly", resolveEndpointWithAuth(s.weeklySummary))
	private.PUT("/telegram", resolveEndpointWithAuth(s.linkTelegram))

	return r
}

func (s *Server) today() time.Time {
	now := s.now().In(s.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
}

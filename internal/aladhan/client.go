package aladhan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pathakanu/salaahTracker/internal/prayer"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public Aladhan API.
const DefaultBaseURL = "https://api.aladhan.com"

// DefaultMethod is the Umm al-Qura calculation method.
const DefaultMethod = 4

const userAgent = "Mozilla/5.0 (compatible; salaahTracker/1.0)"

var (
	// ErrEmptyLocation is returned when city or country is blank.
	ErrEmptyLocation = errors.New("city and country are required")
	// ErrUpstream wraps every failure to obtain a usable timetable from the API.
	ErrUpstream = errors.New("prayer times unavailable")
)

// Client fetches daily timetables and keeps the last one for the rest of the day.
type Client struct {
	baseURL string
	method  int
	http    *http.Client
	now     func() time.Time
	logger  zerolog.Logger

	mu    sync.Mutex
	cache *entry
}

// entry is replaced as a whole, never mutated in place.
type entry struct {
	city     string
	country  string
	day      string
	schedule *prayer.Schedule
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at another API host.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithMethod selects the Aladhan calculation method.
func WithMethod(method int) Option {
	return func(c *Client) { c.method = method }
}

// WithHTTPClient replaces the HTTP client used for fetches.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithClock replaces the clock used to decide when the cache goes stale.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a Client with a bounded request timeout.
func New(timeout time.Duration, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		method:  DefaultMethod,
		http:    &http.Client{Timeout: timeout},
		now:     time.Now,
		logger:  logger.With().Str("component", "aladhan").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Schedule returns today's timetable for a location. A cached timetable is served
// when the location matches case-insensitively and it was fetched on the current
// UTC calendar day; otherwise the API is queried and the cache replaced.
func (c *Client) Schedule(ctx context.Context, city, country string) (*prayer.Schedule, error) {
	city = strings.TrimSpace(city)
	country = strings.TrimSpace(country)
	if city == "" || country == "" {
		return nil, ErrEmptyLocation
	}

	day := c.now().UTC().Format(time.DateOnly)
	if s := c.cached(city, country, day); s != nil {
		return s, nil
	}

	s, err := c.fetch(ctx, city, country)
	if err != nil {
		c.logger.Error().Err(err).Str("city", city).Str("country", country).Msg("fetch prayer times")
		return nil, err
	}

	c.mu.Lock()
	c.cache = &entry{city: city, country: country, day: day, schedule: s}
	c.mu.Unlock()

	c.logger.Info().
		Str("city", city).
		Str("country", country).
		Str("timezone", s.Timezone()).
		Msg("prayer times refreshed")
	return s, nil
}

func (c *Client) cached(city, country, day string) *prayer.Schedule {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.cache
	if e == nil || e.day != day {
		return nil
	}
	if !strings.EqualFold(e.city, city) || !strings.EqualFold(e.country, country) {
		return nil
	}
	return e.schedule
}

type timingsResponse struct {
	Data struct {
		Timings map[string]string `json:"timings"`
		Meta    struct {
			Timezone string `json:"timezone"`
		} `json:"meta"`
	} `json:"data"`
}

func (c *Client) fetch(ctx context.Context, city, country string) (*prayer.Schedule, error) {
	query := url.Values{}
	query.Set("city", city)
	query.Set("country", country)
	query.Set("method", strconv.Itoa(c.method))
	endpoint := c.baseURL + "/v1/timingsByCity?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", endpoint).Msg("requesting prayer times")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}

	var payload timingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	return parseSchedule(payload)
}

func parseSchedule(payload timingsResponse) (*prayer.Schedule, error) {
	tz := strings.TrimSpace(payload.Data.Meta.Timezone)
	if tz == "" {
		return nil, fmt.Errorf("%w: missing timezone", ErrUpstream)
	}

	timings := make(map[prayer.Event]prayer.TimeOfDay, len(prayer.Events))
	for _, e := range prayer.Events {
		raw, ok := payload.Data.Timings[e.String()]
		if !ok {
			return nil, fmt.Errorf("%w: missing %s timing", ErrUpstream, e)
		}
		tod, err := prayer.ParseTimeOfDay(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		timings[e] = tod
	}

	s, err := prayer.NewSchedule(timings, tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return s, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	Environment   string
	Port          string `validate:"required"`
	DatabaseURL   string
	LocalTimezone *time.Location `validate:"required"`
	JWTSecret     string         `validate:"required"`
	LogLevel      string         `validate:"oneof=trace debug info warn error"`

	TelegramBotToken    string
	TelegramAPIEndpoint string

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string

	PrayerAPIURL string        `validate:"required,url"`
	PrayerMethod int           `validate:"gte=0,lte=99"`
	HTTPTimeout  time.Duration `validate:"gt=0"`

	ReminderCity          string
	ReminderCountry       string
	ReminderCron          string `validate:"required"`
	ReminderWindowMinutes int    `validate:"gte=1,lte=5"`
	ReminderTriggerToken  string

	RedisAddress  string
	RedisUsername string
	RedisPassword string
}

// Load reads configuration values and prepares defaults where applicable.
func Load() (*Config, error) {
	_ = godotenv.Load()

	timezoneName := getenvDefault("LOCAL_TIMEZONE", "Local")
	location, err := time.LoadLocation(timezoneName)
	if err != nil {
		log.Warn().Err(err).Str("LOCAL_TIMEZONE", timezoneName).Msg("config: invalid timezone, defaulting to system local")
		location = time.Local
	}

	cfg := &Config{
		Environment:   getenvDefault("APP_ENV", "production"),
		Port:          getenvDefault("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		LocalTimezone: location,
		JWTSecret:     os.Getenv("JWT_SECRET"),
		LogLevel:      getenvDefault("LOG_LEVEL", "info"),

		TelegramBotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramAPIEndpoint: os.Getenv("TELEGRAM_API_ENDPOINT"),

		TwilioAccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),

		PrayerAPIURL: getenvDefault("PRAYER_API_URL", "https://api.aladhan.com"),
		PrayerMethod: ParseIntEnv("PRAYER_METHOD", 4),
		HTTPTimeout:  time.Duration(ParseIntEnv("HTTP_TIMEOUT_SECONDS", 10)) * time.Second,

		ReminderCity:          os.Getenv("REMINDER_CITY"),
		ReminderCountry:       os.Getenv("REMINDER_COUNTRY"),
		ReminderCron:          getenvDefault("REMINDER_CRON", "*/5 * * * *"),
		ReminderWindowMinutes: ParseIntEnv("REMINDER_WINDOW_MINUTES", 5),
		ReminderTriggerToken:  os.Getenv("REMINDER_TRIGGER_TOKEN"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Development reports whether APP_ENV selects the development profile.
func (c *Config) Development() bool {
	return c.Environment == "development"
}

func getenvDefault(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}

// ParseIntEnv returns the integer value for an environment variable or the provided default.
func ParseIntEnv(key string, def int) int {
	value := os.Getenv(key)
	if value == "" {
		return def
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Err(err).Str(key, value).Msg("config: unable to parse int, using default")
		return def
	}
	return parsed
}

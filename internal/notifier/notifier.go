package notifier

import (
	"context"
	"errors"
	"strings"

	"github.com/pathakanu/salaahTracker/internal/telegram"
	"github.com/pathakanu/salaahTracker/internal/twilio"
	"github.com/rs/zerolog"
)

// ErrChannelNotConfigured is returned for chat ids whose channel has no client.
var ErrChannelNotConfigured = errors.New("notification channel not configured")

// Notifier delivers a text message to an external chat identifier.
type Notifier interface {
	Send(ctx context.Context, chatID, text string) error
}

// Multi routes messages by chat id: "whatsapp:" ids go through Twilio, everything
// else through Telegram.
type Multi struct {
	Telegram Notifier
	WhatsApp Notifier
}

// New builds the routing notifier from the configured clients. A Telegram client
// without a token is replaced by a Noop that logs each attempt; a nil Twilio
// client leaves WhatsApp unconfigured.
func New(tg *telegram.Client, wa *twilio.Client, logger zerolog.Logger) *Multi {
	m := &Multi{}
	if tg != nil && tg.Configured() {
		m.Telegram = tg
	} else {
		logger.Error().Msg("TELEGRAM_BOT_TOKEN is missing; telegram reminders will only be logged")
		m.Telegram = Noop{Logger: logger}
	}
	if wa != nil {
		m.WhatsApp = wa
	}
	return m
}

func (m *Multi) Send(ctx context.Context, chatID, text string) error {
	target := m.Telegram
	if strings.HasPrefix(strings.TrimSpace(chatID), twilio.Prefix) {
		target = m.WhatsApp
	}
	if target == nil {
		return ErrChannelNotConfigured
	}
	return target.Send(ctx, chatID, text)
}

// Noop logs messages instead of delivering them.
type Noop struct {
	Logger zerolog.Logger
}

func (n Noop) Send(_ context.Context, chatID, text string) error {
	n.Logger.Warn().Str("chat_id", chatID).Str("text", text).Msg("notifier not configured; message not sent")
	return nil
}

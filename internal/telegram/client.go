package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// ErrMissingToken is returned when the client is used without a bot token.
var ErrMissingToken = errors.New("telegram bot token is not configured")

// Client sends text messages through the Telegram Bot API.
type Client struct {
	token    string
	endpoint string
	http     *http.Client
	logger   zerolog.Logger

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

// New creates a Telegram client. endpoint is a bot API format string such as
// tgbotapi.APIEndpoint; an empty value selects the public API.
func New(token, endpoint string, timeout time.Duration, logger zerolog.Logger) *Client {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	return &Client{
		token:    strings.TrimSpace(token),
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "telegram").Logger(),
	}
}

// Configured reports whether a bot token is present.
func (c *Client) Configured() bool {
	return c.token != ""
}

// api returns the bot API handle, performing the getMe handshake on first use.
// The handshake runs without holding the lock, so concurrent cold callers do
// not queue behind one slow request; the first successful handle is kept. A
// failed handshake is retried on the next call.
func (c *Client) api() (*tgbotapi.BotAPI, error) {
	if !c.Configured() {
		return nil, ErrMissingToken
	}
	c.mu.Lock()
	bot := c.bot
	c.mu.Unlock()
	if bot != nil {
		return bot, nil
	}

	bot, err := tgbotapi.NewBotAPIWithClient(c.token, c.endpoint, c.http)
	if err != nil {
		return nil, fmt.Errorf("telegram handshake: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bot == nil {
		c.logger.Info().Str("bot", bot.Self.UserName).Msg("telegram bot authorised")
		c.bot = bot
	}
	return c.bot, nil
}

// Connect performs the handshake ahead of the first send.
func (c *Client) Connect() error {
	_, err := c.api()
	return err
}

// Send delivers text to chatID. Numeric ids address users and groups; ids
// starting with "@" address public channels.
func (c *Client) Send(ctx context.Context, chatID, text string) error {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return fmt.Errorf("telegram: empty chat id")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := newMessage(chatID, text)
	if err != nil {
		return err
	}

	bot, err := c.api()
	if err != nil {
		return err
	}
	sent, err := bot.Send(msg)
	if err != nil {
		return fmt.Errorf("telegram send to %s: %w", chatID, err)
	}
	c.logger.Debug().Str("chat_id", chatID).Int("message_id", sent.MessageID).Msg("telegram message sent")
	return nil
}

func newMessage(chatID, text string) (tgbotapi.MessageConfig, error) {
	if strings.HasPrefix(chatID, "@") {
		return tgbotapi.NewMessageToChannel(chatID, text), nil
	}
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return tgbotapi.MessageConfig{}, fmt.Errorf("telegram: invalid chat id %q: %w", chatID, err)
	}
	return tgbotapi.NewMessage(id, text), nil
}

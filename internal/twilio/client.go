package twilio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Prefix marks chat identifiers that are WhatsApp numbers.
const Prefix = "whatsapp:"

// Client wraps Twilio messaging for WhatsApp reminders.
type Client struct {
	client       *twilio.RestClient
	fromWhatsApp string
	logger       zerolog.Logger
}

// New creates a Twilio client bound to the configured WhatsApp sender number.
// It returns nil when the account credentials or sender are missing.
func New(accountSID, authToken, fromWhatsApp string, timeout time.Duration, logger zerolog.Logger) *Client {
	if accountSID == "" || authToken == "" || normalizeWhatsAppAddress(fromWhatsApp) == "" {
		return nil
	}
	rest := twilio.NewRestClientWithParams(twilio.ClientParams{Username: accountSID, Password: authToken})
	rest.SetTimeout(timeout)
	return &Client{
		client:       rest,
		fromWhatsApp: fromWhatsApp,
		logger:       logger.With().Str("component", "twilio").Logger(),
	}
}

// Send delivers a WhatsApp message via Twilio's API.
func (c *Client) Send(ctx context.Context, to, body string) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("twilio client not initialised")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sender := normalizeWhatsAppAddress(c.fromWhatsApp)
	recipient := normalizeWhatsAppAddress(to)
	if recipient == "" {
		return fmt.Errorf("recipient number missing or invalid")
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(recipient)
	params.SetFrom(sender)
	params.SetBody(body)

	resp, err := c.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send message error: %w", err)
	}

	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	c.logger.Debug().Str("to", recipient).Str("sid", sid).Msg("whatsapp message sent")
	return nil
}

func normalizeWhatsAppAddress(number string) string {
	trimmed := strings.TrimSpace(number)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, Prefix) {
		if strings.TrimSpace(strings.TrimPrefix(trimmed, Prefix)) == "" {
			return ""
		}
		return trimmed
	}
	if strings.HasPrefix(trimmed, "+") {
		return Prefix + trimmed
	}
	return Prefix + "+" + trimmed
}

package twilio

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNormalizeWhatsAppAddress(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"whatsapp:+15551234567": "whatsapp:+15551234567",
		"+15551234567":          "whatsapp:+15551234567",
		"15551234567":           "whatsapp:+15551234567",
		"  +966500000000 ":      "whatsapp:+966500000000",
		"":                      "",
		"whatsapp:":             "",
	}
	for input, want := range cases {
		if got := normalizeWhatsAppAddress(input); got != want {
			t.Fatalf("normalizeWhatsAppAddress(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	t.Parallel()

	if c := New("", "token", "+15550000000", time.Second, zerolog.Nop()); c != nil {
		t.Fatalf("expected nil client without account SID")
	}
	if c := New("AC123", "token", "", time.Second, zerolog.Nop()); c != nil {
		t.Fatalf("expected nil client without sender")
	}

	var c *Client
	if err := c.Send(context.Background(), "+15551234567", "hi"); err == nil {
		t.Fatalf("expected error from nil client")
	}
}

package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/aptwatch/listing-pipeline/pkg/config"
)

// Sender delivers one SMS message.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

var nonDigits = regexp.MustCompile(`\D`)
var nanpPhone = regexp.MustCompile(`^\+1[0-9]{10}$`)

// FormatPhoneNumber normalizes a US phone number to E.164. Numbers that do
// not look like ten or eleven digit NANP numbers are returned unchanged.
func FormatPhoneNumber(phone string) string {
	digits := nonDigits.ReplaceAllString(phone, "")
	switch {
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return "+" + digits
	}
	return phone
}

// ValidatePhoneNumber reports whether the number normalizes to a valid
// E.164 US number.
func ValidatePhoneNumber(phone string) bool {
	return nanpPhone.MatchString(FormatPhoneNumber(phone))
}

const twilioMessagesURL = "https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json"

type twilioSender struct {
	accountSID string
	authToken  string
	from       string
	client     *http.Client
}

// NewTwilioSender builds a Sender backed by the Twilio Messages REST API.
func NewTwilioSender(cfg *config.NotificationsConfig) *twilioSender {
	return &twilioSender{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.FromNumber,
		client:     &http.Client{Timeout: cfg.RequestTimeout},
	}
}

func (t *twilioSender) Send(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("To", FormatPhoneNumber(to))
	form.Set("From", t.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf(twilioMessagesURL, t.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build twilio request: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call twilio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("twilio returned %d: %s", resp.StatusCode, string(payload))
	}
	return nil
}

// noopSender drops messages. Used when notifications are disabled or Twilio
// credentials are not configured.
type noopSender struct{}

// NewNoopSender builds a Sender that silently discards every message.
func NewNoopSender() noopSender { return noopSender{} }

func (noopSender) Send(context.Context, string, string) error { return nil }

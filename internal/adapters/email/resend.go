package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// ErrNoRecipients is returned when a message has no To addresses.
var ErrNoRecipients = errors.New("email has no recipients")

// ResendSender sends messages via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	now    func() time.Time
}

// NewResendSender creates a ResendSender.
// PRE: apiKey is a valid Resend API key; from is a valid sender address
// POST: Returns a ready-to-use sender
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		now:    time.Now,
	}
}

// Send delivers msg.
// PRE: msg has at least one recipient and a subject
// POST: Message is queued for delivery; returns the Resend message ID
func (s *ResendSender) Send(ctx context.Context, msg Message) (Receipt, error) {
	if len(msg.To) == 0 {
		return Receipt{}, ErrNoRecipients
	}
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		slog.Error("resend_send_failed", "error", err, "to", msg.To, "subject", msg.Subject)
		return Receipt{}, fmt.Errorf("resend send failed: %w", err)
	}
	slog.Info("resend_sent", "message_id", sent.Id, "to", msg.To, "subject", msg.Subject)
	return Receipt{MessageID: sent.Id, SentAt: s.now()}, nil
}

package orchestrators

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"clubconnect/internal/adapters/email"
	"clubconnect/internal/application/markdown"
	"clubconnect/internal/domain/club"
)

// SlotFullNotifier is told when an enrollment takes the last seat of a slot.
// Implementations must not fail the enrollment; errors are theirs to log.
type SlotFullNotifier interface {
	SlotFilled(ctx context.Context, clubName string, slot club.TimeSlot)
}

// EmailSlotFullNotifier mails the club coordinators when a slot fills up.
type EmailSlotFullNotifier struct {
	Sender  email.Sender
	To      []string
	Timeout time.Duration
}

// SlotFilled sends the notification, best effort.
// PRE: none
// POST: one message handed to Sender, or a logged failure; never blocks longer than Timeout
func (n EmailSlotFullNotifier) SlotFilled(ctx context.Context, clubName string, slot club.TimeSlot) {
	if n.Sender == nil || len(n.To) == 0 {
		return
	}
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	body := fmt.Sprintf("**%s** is now full for %s, %s (%d/%d seats taken).",
		html.EscapeString(clubName), slot.DayOfWeek, slot.TimeRange(), slot.EnrolledCount, slot.Capacity)
	msg := email.Message{
		To:      n.To,
		Subject: fmt.Sprintf("%s: %s %s is full", clubName, slot.DayOfWeek, slot.TimeRange()),
		HTML:    markdown.ToHTML(body),
	}
	if _, err := n.Sender.Send(ctx, msg); err != nil {
		slog.Warn("enrollment_event", "event", "slot_full_notify_failed", "slot_id", slot.ID, "error", err)
		return
	}
	slog.Info("enrollment_event", "event", "slot_full_notified", "slot_id", slot.ID, "recipients", len(n.To))
}

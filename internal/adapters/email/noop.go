package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// NoopSender logs messages instead of delivering them and keeps the last few
// for inspection. Used when no provider key is configured.
type NoopSender struct {
	mu   sync.Mutex
	sent []Message
}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

const noopKeep = 50

// Send logs msg and records it.
func (s *NoopSender) Send(_ context.Context, msg Message) (Receipt, error) {
	if len(msg.To) == 0 {
		return Receipt{}, ErrNoRecipients
	}
	slog.Info("noop_email_send", "to", msg.To, "subject", msg.Subject)
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	if len(s.sent) > noopKeep {
		s.sent = s.sent[len(s.sent)-noopKeep:]
	}
	s.mu.Unlock()
	now := time.Now()
	return Receipt{MessageID: fmt.Sprintf("noop-%d", now.UnixNano()), SentAt: now}, nil
}

// Sent returns a copy of the recorded messages, oldest first.
func (s *NoopSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}

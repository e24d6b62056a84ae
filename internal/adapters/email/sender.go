package email

import (
	"context"
	"time"
)

// Message is one outbound notification.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Receipt is the provider's acknowledgement of a Message.
type Receipt struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers messages through an external provider.
type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}

package audit

import (
	"context"
	"log/slog"

	"tasquest/pkg/requestcontext"
)

// Publisher enqueues events for the Worker. Emit never blocks the request
// path: when the buffer is full the event is dropped and logged.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewPublisher(buffer int, logger *slog.Logger) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{inbox: make(chan Event, buffer), logger: logger}
}

// Emit stamps request metadata onto the event and enqueues it.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}

	select {
	case p.inbox <- event:
	default:
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit buffer full, dropping event",
				"action", event.Action,
				"account_id", event.AccountID.String(),
			)
		}
	}
	return nil
}

// Inbox exposes the queue to the Worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

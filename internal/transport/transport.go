package transport

import (
	"context"

	"github.com/ecarden/repo-indexer/internal/message"
)

// Consumer delivers inbound notifications from the message broker
type Consumer interface {
	// Notifications returns the channel inbound notifications arrive
	// on. The channel is closed when the consumer shuts down.
	Notifications() <-chan *message.Notification

	// HealthCheck verifies broker connectivity
	HealthCheck(ctx context.Context) error

	// Close stops consuming and releases the broker connection
	Close() error
}

// Publisher sends notification payloads to the broker. Used by the
// publish tool and integration tests; the daemon itself only consumes.
type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
	Close() error
}

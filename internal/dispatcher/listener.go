package dispatcher

import (
	"github.com/rs/zerolog"

	"github.com/ecarden/repo-indexer/internal/message"
)

// Listener observes completed indexing rounds. Implementations are
// notified after every indexer has been invoked for a cycle.
type Listener interface {
	// NotifyUpdate is called after an update cycle's fan-out completes
	NotifyUpdate(event message.ChangeEvent, msg *message.Notification)

	// NotifyRemove is called after a removal cycle's fan-out completes
	NotifyRemove(event message.ChangeEvent, msg *message.Notification)
}

// ListenerFunc adapts a plain function to the Listener interface
type ListenerFunc func(event message.ChangeEvent, msg *message.Notification)

func (f ListenerFunc) NotifyUpdate(event message.ChangeEvent, msg *message.Notification) {
	f(event, msg)
}

func (f ListenerFunc) NotifyRemove(event message.ChangeEvent, msg *message.Notification) {
	f(event, msg)
}

// LoggingListener logs every completed indexing round
type LoggingListener struct {
	Logger zerolog.Logger
}

func (l LoggingListener) NotifyUpdate(event message.ChangeEvent, msg *message.Notification) {
	l.Logger.Info().
		Str("message_id", msg.ID).
		Str("resource_id", event.ResourceID).
		Msg("resource indexed")
}

func (l LoggingListener) NotifyRemove(event message.ChangeEvent, msg *message.Notification) {
	l.Logger.Info().
		Str("message_id", msg.ID).
		Str("resource_id", event.ResourceID).
		Msg("resource removed from index")
}

package session

import (
	"context"
	"time"
)

// LogoutChannel is the fixed logout-broadcast channel name. Transports may
// scope it further (e.g. per profile) but the name itself never varies.
const LogoutChannel = "auth_logout_channel"

// Message types carried over the broadcast channel.
const TypeLogout = "logout"

// Message is the broadcast payload. Currently a single variant: a logout
// notice stamped with the sender's clock.
type Message struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // epoch millis
}

func NewLogoutMessage(now time.Time) Message {
	return Message{Type: TypeLogout, Timestamp: now.UnixMilli()}
}

// Broadcaster propagates logout notices to every client sharing a profile.
// Publish is best-effort: callers log failures and proceed with local logout.
// Receipt handling must be idempotent; duplicate or out-of-order delivery of
// a logout is harmless because clearing cleared state is a no-op.
type Broadcaster interface {
	Publish(ctx context.Context, msg Message) error
	// Subscribe registers a handler invoked for every received Message.
	// It returns once the subscription is established.
	Subscribe(ctx context.Context, handler func(Message)) error
	Close() error
}

package session

import (
	"context"
	"time"
)

// Store is the durable key/value backing for one profile's session state.
// All writers perform full-replace writes; last-writer-wins is the intended
// conflict policy.
type Store interface {
	// SaveSession persists the serialized usuario under KeyCurrentUser and
	// the token under KeyToken.
	SaveSession(ctx context.Context, sess Session) error
	// GetSession returns the persisted usuario + token, or ErrNoSession.
	GetSession(ctx context.Context) (Session, error)
	// GetToken returns the persisted bearer token, or ErrNoSession.
	GetToken(ctx context.Context) (string, error)

	// SaveStartTime persists the session start under KeySessionStartTime
	// as an epoch-millis string.
	SaveStartTime(ctx context.Context, t time.Time) error
	// GetStartTime returns the persisted start, or ErrNoSession.
	GetStartTime(ctx context.Context) (time.Time, error)
	ClearStartTime(ctx context.Context) error

	// Clear removes all three keys together. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}

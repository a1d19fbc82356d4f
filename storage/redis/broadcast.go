package redisstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/yavirac/inventario/core"
	"github.com/yavirac/inventario/core/session"
)

// Broadcaster relays logout notices between the clients of one profile over
// Redis pub/sub. The channel is the fixed logout channel name, scoped by
// profile so one user's logout never reaches another's clients.
type Broadcaster struct {
	client  *redis.Client
	channel string
	logger  core.Logger

	mu  sync.Mutex
	sub *redis.PubSub
}

var _ session.Broadcaster = (*Broadcaster)(nil)

func NewBroadcaster(client *redis.Client, profile string, logger core.Logger) *Broadcaster {
	channel := session.LogoutChannel
	if profile != "" {
		channel += ":" + profile
	}
	return &Broadcaster{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (b *Broadcaster) Publish(ctx context.Context, msg session.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "encoding logout notice")
	}
	if err = b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return errors.Wrap(err, "publishing logout notice")
	}
	return nil
}

// Subscribe starts delivering notices to handler until Close. Calling it
// again on an open subscription is a no-op.
func (b *Broadcaster) Subscribe(ctx context.Context, handler func(session.Message)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sub != nil {
		return nil
	}

	sub := b.client.Subscribe(ctx, b.channel)
	// wait for the subscription to be confirmed so a publish right after
	// Subscribe is not lost
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return errors.Wrap(err, "subscribing to logout notices")
	}
	b.sub = sub

	go func() {
		for raw := range sub.Channel() {
			var msg session.Message
			if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
				b.logger.Error("decoding logout notice", err)
				continue
			}
			handler(msg)
		}
	}()
	return nil
}

func (b *Broadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sub == nil {
		return nil
	}
	err := b.sub.Close()
	b.sub = nil
	return err
}

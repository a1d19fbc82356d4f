package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/yavirac/inventario/core/session"
	"github.com/yavirac/inventario/core/usuario"
)

// Store persists one profile's session state in Redis under
// "session:<profile>:<key>". Every key carries a TTL slightly longer than
// the session window so abandoned sessions age out on their own.
type Store struct {
	client  *redis.Client
	profile string
	ttl     time.Duration
}

var _ session.Store = (*Store)(nil)

func NewStore(client *redis.Client, profile string, window time.Duration) *Store {
	return &Store{
		client:  client,
		profile: profile,
		// the grace period lets a client observe its own expiry before
		// the keys vanish
		ttl: window + time.Minute,
	}
}

func (s *Store) key(name string) string {
	return fmt.Sprintf("session:%s:%s", s.profile, name)
}

func (s *Store) SaveSession(ctx context.Context, sess session.Session) error {
	data, err := json.Marshal(sess.Usuario)
	if err != nil {
		return errors.Wrap(err, "encoding session usuario")
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(session.KeyCurrentUser), data, s.ttl)
	pipe.Set(ctx, s.key(session.KeyToken), sess.Token, s.ttl)
	if _, err = pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "saving session")
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context) (session.Session, error) {
	data, err := s.client.Get(ctx, s.key(session.KeyCurrentUser)).Result()
	if err != nil {
		if err == redis.Nil {
			return session.Session{}, session.ErrNoSession
		}
		return session.Session{}, errors.Wrap(err, "getting session")
	}

	var usr usuario.Usuario
	if err = json.Unmarshal([]byte(data), &usr); err != nil {
		return session.Session{}, errors.Wrap(err, "decoding session usuario")
	}

	token, err := s.client.Get(ctx, s.key(session.KeyToken)).Result()
	if err != nil && err != redis.Nil {
		return session.Session{}, errors.Wrap(err, "getting session token")
	}
	return session.Session{Usuario: usr, Token: token}, nil
}

func (s *Store) GetToken(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key(session.KeyToken)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", session.ErrNoSession
		}
		return "", errors.Wrap(err, "getting session token")
	}
	return token, nil
}

func (s *Store) SaveStartTime(ctx context.Context, t time.Time) error {
	millis := strconv.FormatInt(t.UnixMilli(), 10)
	if err := s.client.Set(ctx, s.key(session.KeySessionStartTime), millis, s.ttl).Err(); err != nil {
		return errors.Wrap(err, "saving session start time")
	}
	return nil
}

func (s *Store) GetStartTime(ctx context.Context) (time.Time, error) {
	raw, err := s.client.Get(ctx, s.key(session.KeySessionStartTime)).Result()
	if err != nil {
		if err == redis.Nil {
			return time.Time{}, session.ErrNoSession
		}
		return time.Time{}, errors.Wrap(err, "getting session start time")
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "decoding session start time")
	}
	return time.UnixMilli(millis), nil
}

func (s *Store) ClearStartTime(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key(session.KeySessionStartTime)).Err(); err != nil {
		return errors.Wrap(err, "clearing session start time")
	}
	return nil
}

// Clear removes the three session keys together.
func (s *Store) Clear(ctx context.Context) error {
	keys := []string{
		s.key(session.KeyToken),
		s.key(session.KeyCurrentUser),
		s.key(session.KeySessionStartTime),
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(err, "clearing session")
	}
	return nil
}

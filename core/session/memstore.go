package session

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/yavirac/inventario/core/usuario"
)

// MemStore is a mutex-guarded in-memory Store. It backs tests and
// single-process setups; production uses the Redis-backed store.
type MemStore struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

func (s *MemStore) SaveSession(_ context.Context, sess Session) error {
	data, err := json.Marshal(sess.Usuario)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[KeyCurrentUser] = string(data)
	s.values[KeyToken] = sess.Token
	return nil
}

func (s *MemStore) GetSession(_ context.Context) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.values[KeyCurrentUser]
	if !ok {
		return Session{}, ErrNoSession
	}
	var usr usuario.Usuario
	if err := json.Unmarshal([]byte(data), &usr); err != nil {
		return Session{}, err
	}
	return Session{Usuario: usr, Token: s.values[KeyToken]}, nil
}

func (s *MemStore) GetToken(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.values[KeyToken]
	if !ok {
		return "", ErrNoSession
	}
	return token, nil
}

func (s *MemStore) SaveStartTime(_ context.Context, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[KeySessionStartTime] = strconv.FormatInt(t.UnixMilli(), 10)
	return nil
}

func (s *MemStore) GetStartTime(_ context.Context) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.values[KeySessionStartTime]
	if !ok {
		return time.Time{}, ErrNoSession
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(millis), nil
}

func (s *MemStore) ClearStartTime(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, KeySessionStartTime)
	return nil
}

func (s *MemStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, KeyCurrentUser)
	delete(s.values, KeyToken)
	delete(s.values, KeySessionStartTime)
	return nil
}

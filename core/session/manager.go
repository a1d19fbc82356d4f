package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/yavirac/inventario/core"
	"github.com/yavirac/inventario/core/usuario"
)

var (
	// ErrInvalidCredentials covers rejected logins (bad password, unknown
	// account, deactivated account). Callers map it to a user-facing notice.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrBackendUnreachable covers transport-level login failures.
	ErrBackendUnreachable = errors.New("cannot reach authentication server")

	errMissingToken = errors.New("login response carries no token")
)

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Authenticator verifies credentials against an identity backend and returns
// the raw response payload. The payload's field names are not stable across
// backends, so normalization happens here, not in the Authenticator.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (json.RawMessage, error)
}

// Manager is the single source of truth for who is logged in on one
// profile. It owns the in-memory Session, keeps it in sync with the durable
// Store, drives the Timer, and coordinates the cross-client logout
// broadcast.
type Manager struct {
	store  Store
	timer  *Timer
	bc     Broadcaster
	auth   Authenticator
	policy AccessPolicy
	logger core.Logger

	mu       sync.Mutex
	current  *Session
	hydrated bool

	watchOnce sync.Once
}

func NewManager(
	store Store,
	timer *Timer,
	bc Broadcaster,
	auth Authenticator,
	policy AccessPolicy,
	logger core.Logger,
) *Manager {
	return &Manager{
		store:  store,
		timer:  timer,
		bc:     bc,
		auth:   auth,
		policy: policy,
		logger: logger,
	}
}

func (m *Manager) Timer() *Timer { return m.timer }

// Login authenticates, normalizes the backend payload into a canonical
// Session, persists it and starts the session window. Navigation after
// login is the caller's job.
func (m *Manager) Login(ctx context.Context, creds Credentials) (usuario.Usuario, error) {
	raw, err := m.auth.Authenticate(ctx, creds)
	if err != nil {
		return usuario.Usuario{}, err
	}

	usr, token, err := NormalizeLoginPayload(raw, creds.Email, m.logger)
	if err != nil {
		return usuario.Usuario{}, err
	}
	if err := m.AdoptSession(ctx, usr, token); err != nil {
		return usuario.Usuario{}, err
	}
	return usr, nil
}

// AdoptSession installs an already-authenticated session: persist it, start
// the window and make it current. The HTTP layer uses it because the profile
// is only known after authentication.
func (m *Manager) AdoptSession(ctx context.Context, usr usuario.Usuario, token string) error {
	sess := Session{Usuario: usr, Token: token}
	if err := m.store.SaveSession(ctx, sess); err != nil {
		return errors.Wrap(err, "persisting session")
	}
	start, err := m.timer.StartSession(ctx)
	if err != nil {
		return errors.Wrap(err, "starting session window")
	}
	sess.StartedAt = start

	m.mu.Lock()
	m.current = &sess
	m.hydrated = true
	m.mu.Unlock()

	m.watchExpiry()
	return nil
}

// Resume restores a persisted session after a restart and re-arms the timer.
// Nothing persisted means nothing to do.
func (m *Manager) Resume(ctx context.Context) error {
	if _, ok := m.Current(ctx); !ok {
		return nil
	}
	if err := m.timer.Resume(ctx); err != nil {
		return err
	}
	m.watchExpiry()
	return nil
}

// Listen subscribes to remote logout notices for this profile.
func (m *Manager) Listen(ctx context.Context) error {
	if m.bc == nil {
		return nil
	}
	return m.bc.Subscribe(ctx, func(msg Message) {
		m.HandleRemoteLogout(context.Background(), msg)
	})
}

// Close releases the manager's transport resources, the logout subscription
// and the tick loop, without touching the persisted session. The registry
// uses it to discard a duplicate built during a construction race.
func (m *Manager) Close() {
	m.timer.Halt()
	if m.bc == nil {
		return
	}
	if err := m.bc.Close(); err != nil {
		m.logger.Error("closing logout subscription", err)
	}
}

// Logout notifies other clients, then performs the local logout.
func (m *Manager) Logout(ctx context.Context) {
	m.publishLogout(ctx)
	m.performLogout(ctx)
}

// HandleRemoteLogout reacts to a logout broadcast from another client:
// surface a notice, then clear locally WITHOUT re-broadcasting, which would
// otherwise loop forever.
func (m *Manager) HandleRemoteLogout(ctx context.Context, msg Message) {
	if msg.Type != TypeLogout {
		return
	}
	m.logger.Info(fmt.Sprintf("session closed from another client at %s",
		time.UnixMilli(msg.Timestamp).Format(time.RFC3339)))
	m.performLogout(ctx)
}

func (m *Manager) publishLogout(ctx context.Context) {
	if m.bc == nil {
		return
	}
	// best-effort: a broken broadcast never blocks the local logout
	if err := m.bc.Publish(ctx, NewLogoutMessage(time.Now())); err != nil {
		m.logger.Error("publishing logout notice", err)
	}
}

func (m *Manager) performLogout(ctx context.Context) {
	m.mu.Lock()
	m.current = nil
	m.hydrated = true
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error("clearing persisted session", err)
	}
	m.timer.Stop(ctx)
}

// Current returns the in-memory Session, hydrating it from the Store at
// most once. It never contacts the identity backend.
func (m *Manager) Current(ctx context.Context) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return *m.current, true
	}
	if m.hydrated {
		return Session{}, false
	}
	m.hydrated = true

	sess, err := m.store.GetSession(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			m.logger.Error("hydrating session from store", err)
		}
		return Session{}, false
	}
	if start, err := m.store.GetStartTime(ctx); err == nil {
		sess.StartedAt = start
	}
	m.current = &sess
	return sess, true
}

// Role queries are pure reads; with no session they report the
// lowest-privilege role.

func (m *Manager) RoleID(ctx context.Context) int {
	if sess, ok := m.Current(ctx); ok {
		return sess.RoleID()
	}
	return usuario.RoleUsuario
}

func (m *Manager) IsAdmin(ctx context.Context) bool {
	return m.RoleID(ctx) == usuario.RoleAdmin
}

func (m *Manager) IsCoordinador(ctx context.Context) bool {
	return m.RoleID(ctx) == usuario.RoleCoordinador
}

func (m *Manager) IsDocente(ctx context.Context) bool {
	return m.RoleID(ctx) == usuario.RoleDocente
}

// HasAccessToRoute gates navigation by the current role and the static
// access policy.
func (m *Manager) HasAccessToRoute(ctx context.Context, route string) bool {
	return m.policy.Allowed(route, m.RoleID(ctx))
}

// expiry terminates the session exactly like an explicit logout, broadcast
// included, so every client of the profile converges.
func (m *Manager) watchExpiry() {
	m.watchOnce.Do(func() {
		go func() {
			for range m.timer.Expired() {
				m.logger.Info("session window elapsed, logging out")
				m.Logout(context.Background())
			}
		}()
	})
}

// NormalizeLoginPayload maps a heterogeneous login response onto the
// canonical usuario + token pair. Known aliases are probed in order; the
// role is normalized through usuario.RoleFromValue and falls back to the
// lowest-privilege role with a warning.
func NormalizeLoginPayload(raw json.RawMessage, fallbackEmail string, logger core.Logger) (usuario.Usuario, string, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return usuario.Usuario{}, "", errors.Wrap(err, "decoding login response")
	}

	token := firstString(payload, "token", "jwt")
	if token == "" {
		return usuario.Usuario{}, "", errMissingToken
	}

	rolValue := firstValue(payload, "rol", "role", "idRol")
	idRol, recognized := usuario.RoleFromValue(rolValue)
	if !recognized {
		logger.Warn(fmt.Sprintf("unrecognized role %v, defaulting to Usuario", rolValue))
	}

	email := firstString(payload, "email", "emailUsuario")
	if email == "" {
		email = fallbackEmail
	}

	estado := true
	if v, ok := payload["estado"].(bool); ok {
		estado = v
	}

	fechaRegistro := time.Now().UTC()
	if s, ok := payload["fechaRegistro"].(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			fechaRegistro = t
		}
	}

	usr := usuario.Usuario{
		IDUsuario:     firstInt(payload, "idUsuario", "id"),
		Nombre:        firstString(payload, "nombre", "nombreUsuario"),
		Email:         email,
		Estado:        estado,
		FechaRegistro: fechaRegistro,
		IDRol:         idRol,
	}
	return usr, token, nil
}

func firstValue(payload map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := payload[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(payload map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := payload[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstInt(payload map[string]interface{}, keys ...string) int {
	for _, k := range keys {
		switch v := payload[k].(type) {
		case float64:
			return int(v)
		case int:
			return v
		}
	}
	return 0
}

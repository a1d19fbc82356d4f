package session

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yavirac/inventario/core/usuario"
	testutil "github.com/yavirac/inventario/tests"
)

type stubAuth struct {
	payload string
	err     error
}

func (a stubAuth) Authenticate(context.Context, Credentials) (json.RawMessage, error) {
	if a.err != nil {
		return nil, a.err
	}
	return json.RawMessage(a.payload), nil
}

type fakeBroadcaster struct {
	mu        sync.Mutex
	published []Message
	handler   func(Message)
	pubErr    error
	closed    bool
}

func (b *fakeBroadcaster) Publish(_ context.Context, msg Message) error {
	if b.pubErr != nil {
		return b.pubErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, msg)
	return nil
}

func (b *fakeBroadcaster) Subscribe(_ context.Context, handler func(Message)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = handler
	return nil
}

func (b *fakeBroadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handler = nil
	return nil
}

func (b *fakeBroadcaster) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *fakeBroadcaster) deliver(msg Message) {
	b.mu.Lock()
	handler := b.handler
	b.mu.Unlock()
	if handler != nil {
		handler(msg)
	}
}

func (b *fakeBroadcaster) publishedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.published)
}

func newTestManager(t *testing.T, auth Authenticator, bc Broadcaster) (*Manager, *MemStore, *testutil.Logger) {
	t.Helper()
	store := NewMemStore()
	logger := testutil.NewLogger()
	clock := newFakeClock(time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC))
	timer := NewTimer(store, logger, testSessionConf, WithClock(clock))
	return NewManager(store, timer, bc, auth, DefaultPolicy(), logger), store, logger
}

func Test_Manager_Login(t *testing.T) {
	ctx := context.Background()
	creds := Credentials{Email: "ana@yavirac.edu.ec", Password: "s3cret"}

	auth := stubAuth{payload: `{
		"jwt": "tok-abc",
		"id": 7,
		"nombreUsuario": "Ana Torres",
		"role": "Administrador del Sistema"
	}`}
	m, store, _ := newTestManager(t, auth, &fakeBroadcaster{})

	usr, err := m.Login(ctx, creds)
	assert.NoError(t, err)
	assert.Equal(t, 7, usr.IDUsuario)
	assert.Equal(t, "Ana Torres", usr.Nombre)
	assert.Equal(t, "ana@yavirac.edu.ec", usr.Email) // fallback from credentials
	assert.Equal(t, usuario.RoleAdmin, usr.IDRol)

	// the session is durable and the window has started
	sess, err := store.GetSession(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "tok-abc", sess.Token)
	_, err = store.GetStartTime(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 30*time.Minute, m.Timer().GetTimeRemaining())
}

func Test_Manager_Login_missingToken(t *testing.T) {
	auth := stubAuth{payload: `{"id": 7, "rol": 1}`}
	m, store, _ := newTestManager(t, auth, &fakeBroadcaster{})

	_, err := m.Login(context.Background(), Credentials{Email: "a@b.ec", Password: "x"})
	assert.Error(t, err)

	// nothing persisted on a failed login
	_, err = store.GetSession(context.Background())
	assert.Equal(t, ErrNoSession, err)
}

func Test_NormalizeLoginPayload(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantRol  int
		wantName string
		warnings int
	}{
		{
			name:    "numeric role is used directly",
			payload: `{"token": "t", "idRol": 3, "nombre": "Luis"}`,
			wantRol: usuario.RoleDocente, wantName: "Luis",
		},
		{
			name:    "role text Coordinador",
			payload: `{"token": "t", "rol": "Coordinador de Carrera"}`,
			wantRol: usuario.RoleCoordinador,
		},
		{
			name:    "role text Docente, case-insensitive",
			payload: `{"token": "t", "rol": "docente"}`,
			wantRol: usuario.RoleDocente,
		},
		{
			name:    "numeric string role",
			payload: `{"token": "t", "rol": "2"}`,
			wantRol: usuario.RoleCoordinador,
		},
		{
			name:    "unknown role falls back with a warning",
			payload: `{"token": "t", "rol": "Invitado"}`,
			wantRol: usuario.RoleUsuario, warnings: 1,
		},
		{
			name:    "missing role falls back with a warning",
			payload: `{"token": "t"}`,
			wantRol: usuario.RoleUsuario, warnings: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := testutil.NewLogger()
			usr, token, err := NormalizeLoginPayload(json.RawMessage(tt.payload), "f@b.ec", logger)
			assert.NoError(t, err)
			assert.Equal(t, "t", token)
			assert.Equal(t, tt.wantRol, usr.IDRol)
			assert.Equal(t, tt.wantName, usr.Nombre)
			assert.Equal(t, tt.warnings, logger.WarningCount())
		})
	}
}

func Test_Manager_Logout(t *testing.T) {
	ctx := context.Background()
	bc := &fakeBroadcaster{}
	auth := stubAuth{payload: `{"token": "t", "idUsuario": 1, "rol": 1}`}
	m, store, _ := newTestManager(t, auth, bc)

	_, err := m.Login(ctx, Credentials{Email: "a@b.ec", Password: "x"})
	assert.NoError(t, err)

	m.Logout(ctx)

	assert.Equal(t, 1, bc.publishedCount())
	assert.Equal(t, TypeLogout, bc.published[0].Type)
	assert.NotZero(t, bc.published[0].Timestamp)

	_, err = store.GetSession(ctx)
	assert.Equal(t, ErrNoSession, err)
	_, ok := m.Current(ctx)
	assert.False(t, ok)
	assert.Equal(t, usuario.RoleUsuario, m.RoleID(ctx))
	assert.Zero(t, m.Timer().GetTimeRemaining())
}

func Test_Manager_Logout_brokenBroadcastStillLogsOut(t *testing.T) {
	ctx := context.Background()
	bc := &fakeBroadcaster{pubErr: assert.AnError}
	auth := stubAuth{payload: `{"token": "t", "rol": 1}`}
	m, store, logger := newTestManager(t, auth, bc)

	_, err := m.Login(ctx, Credentials{Email: "a@b.ec", Password: "x"})
	assert.NoError(t, err)

	m.Logout(ctx)

	_, err = store.GetSession(ctx)
	assert.Equal(t, ErrNoSession, err)
	assert.NotEmpty(t, logger.Errors)
}

func Test_Manager_RemoteLogout_noRebroadcast(t *testing.T) {
	ctx := context.Background()
	bc := &fakeBroadcaster{}
	auth := stubAuth{payload: `{"token": "t", "idUsuario": 2, "rol": 3}`}
	m, store, logger := newTestManager(t, auth, bc)

	_, err := m.Login(ctx, Credentials{Email: "a@b.ec", Password: "x"})
	assert.NoError(t, err)
	assert.NoError(t, m.Listen(ctx))

	bc.deliver(NewLogoutMessage(time.Now()))

	_, err = store.GetSession(ctx)
	assert.Equal(t, ErrNoSession, err)
	_, ok := m.Current(ctx)
	assert.False(t, ok)
	// the notice is surfaced but never echoed back onto the channel
	assert.NotEmpty(t, logger.Infos)
	assert.Equal(t, 0, bc.publishedCount())
}

func Test_Manager_RemoteLogout_ignoresOtherTypes(t *testing.T) {
	ctx := context.Background()
	auth := stubAuth{payload: `{"token": "t", "rol": 1}`}
	m, store, _ := newTestManager(t, auth, &fakeBroadcaster{})

	_, err := m.Login(ctx, Credentials{Email: "a@b.ec", Password: "x"})
	assert.NoError(t, err)

	m.HandleRemoteLogout(ctx, Message{Type: "refresh", Timestamp: time.Now().UnixMilli()})

	_, err = store.GetSession(ctx)
	assert.NoError(t, err) // untouched
}

func Test_Manager_Current_hydratesOnce(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	logger := testutil.NewLogger()

	usr := usuario.Usuario{IDUsuario: 9, Nombre: "Marta", IDRol: usuario.RoleCoordinador}
	assert.NoError(t, store.SaveSession(ctx, Session{Usuario: usr, Token: "tok"}))

	clock := newFakeClock(time.Now())
	timer := NewTimer(store, logger, testSessionConf, WithClock(clock))
	m := NewManager(store, timer, nil, nil, DefaultPolicy(), logger)

	sess, ok := m.Current(ctx)
	assert.True(t, ok)
	assert.Equal(t, 9, sess.Usuario.IDUsuario)
	assert.True(t, m.IsCoordinador(ctx))

	// wiping the store behind the manager's back does not drop the
	// in-memory session; hydration happens at most once
	assert.NoError(t, store.Clear(ctx))
	_, ok = m.Current(ctx)
	assert.True(t, ok)
}

func Test_Manager_roleHelpersWithoutSession(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t, nil, nil)

	assert.Equal(t, usuario.RoleUsuario, m.RoleID(ctx))
	assert.False(t, m.IsAdmin(ctx))
	assert.False(t, m.IsCoordinador(ctx))
	assert.False(t, m.IsDocente(ctx))
}

func Test_Manager_expiryLogsOutAndBroadcasts(t *testing.T) {
	ctx := context.Background()
	bc := &fakeBroadcaster{}
	auth := stubAuth{payload: `{"token": "t", "rol": 2}`}

	store := NewMemStore()
	logger := testutil.NewLogger()
	clock := newFakeClock(time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC))
	timer := NewTimer(store, logger, testSessionConf, WithClock(clock))
	m := NewManager(store, timer, bc, auth, DefaultPolicy(), logger)

	_, err := m.Login(ctx, Credentials{Email: "a@b.ec", Password: "x"})
	assert.NoError(t, err)

	clock.step(30 * time.Minute)

	deadline := time.After(2 * time.Second)
	for bc.publishedCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("expected expiry to broadcast a logout")
		case <-time.After(10 * time.Millisecond):
		}
	}
	_, ok := m.Current(ctx)
	assert.False(t, ok)
}

package session

import (
	"time"

	"github.com/pkg/errors"

	"github.com/yavirac/inventario/core/usuario"
)

// Storage keys for one profile. The three keys live and die together:
// login writes all of them, logout/expiry clears all of them.
const (
	KeyToken            = "token"
	KeyCurrentUser      = "currentUser"
	KeySessionStartTime = "sessionStartTime"
)

// ErrNoSession is returned by a Store when a key is absent. Absence means
// unauthenticated; it is never treated as a failure.
var ErrNoSession = errors.New("no active session")

// Session is the authenticated state for one login, bounded by a fixed
// window measured from StartedAt. It is created whole on login and cleared
// whole on logout/expiry; there are no partial updates.
type Session struct {
	Usuario   usuario.Usuario `json:"usuario"`
	Token     string          `json:"-"`
	StartedAt time.Time       `json:"-"`
}

func (s Session) RoleID() int {
	if s.Usuario.IDUsuario == 0 && s.Usuario.IDRol == 0 {
		return usuario.RoleUsuario
	}
	return s.Usuario.IDRol
}

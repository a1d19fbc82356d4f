package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yavirac/inventario/core/session"
)

// roleGuard gates a route group by the static access policy. route is the
// policy's route id, not the HTTP path.
func roleGuard(policy session.AccessPolicy, route string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if policy.Allowed(route, claims.IDRol) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// sessionMiddleware rejects requests whose profile has no unexpired session
// window, even when the JWT itself is still valid.
func sessionMiddleware(registry *session.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}

			reqCtx := ctx.Request().Context()
			m, err := registry.ForUser(reqCtx, claims.UsuarioID())
			if err != nil {
				return errors.Wrap(err, "resolving session manager")
			}
			if _, ok := m.Current(reqCtx); !ok {
				return errSessionExpired
			}
			return next(ctx)
		}
	}
}

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yavirac/inventario/core/usuario"
)

func Test_AccessPolicy_Allowed(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name  string
		route string
		rol   int
		want  bool
	}{
		{"docente blocked from user management", "/usuarios", usuario.RoleDocente, false},
		{"admin enters user management", "/usuarios", usuario.RoleAdmin, true},
		{"coordinador blocked from user management", "/usuarios", usuario.RoleCoordinador, false},

		{"coordinador enters inventory", "/inventario", usuario.RoleCoordinador, true},
		{"admin enters inventory", "/inventario", usuario.RoleAdmin, true},
		{"docente blocked from inventory", "/inventario", usuario.RoleDocente, false},
		{"docente blocked from assignments", "/asignacion-aula", usuario.RoleDocente, false},
		{"coordinador enters change requests", "/solicitudes-cambio", usuario.RoleCoordinador, true},
		{"coordinador enters reports", "/reportes", usuario.RoleCoordinador, true},

		{"docente enters own portal", "/portal-docente", usuario.RoleDocente, true},
		{"admin blocked from docente portal", "/portal-docente", usuario.RoleAdmin, false},
		{"docente enters assigned classroom", "/mi-aula-asignada", usuario.RoleDocente, true},
		{"docente enters own reports", "/reportes-docente", usuario.RoleDocente, true},

		{"basic role blocked everywhere restricted", "/inventario", usuario.RoleUsuario, false},
		{"unlisted route open to anyone", "/perfil", usuario.RoleUsuario, true},
		{"unknown role on unlisted route", "/ayuda", 99, true},

		// matching is exact, sub-routes are not covered by the parent entry
		{"sub-route of a restricted path", "/usuarios/5", usuario.RoleDocente, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Allowed(tt.route, tt.rol))
		})
	}
}

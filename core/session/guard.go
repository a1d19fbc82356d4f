package session

import "github.com/yavirac/inventario/core/usuario"

// AccessPolicy maps a route id to the role ids permitted to enter it.
// Consulted at request time, never mutated. Matching is exact: a sub-route
// of a restricted path is NOT covered unless it is listed itself.
type AccessPolicy map[string][]int

// DefaultPolicy is the institution's route table.
func DefaultPolicy() AccessPolicy {
	adminOnly := []int{usuario.RoleAdmin}
	adminCoordinador := []int{usuario.RoleAdmin, usuario.RoleCoordinador}
	docente := []int{usuario.RoleDocente}

	return AccessPolicy{
		"/usuarios": adminOnly,

		"/inventario":         adminCoordinador,
		"/asignacion-aula":    adminCoordinador,
		"/solicitudes-cambio": adminCoordinador,
		"/reportes":           adminCoordinador,

		"/portal-docente":   docente,
		"/mi-aula-asignada": docente,
		"/reportes-docente": docente,
	}
}

// Allowed reports whether roleID may enter route. Routes absent from the
// policy are implicitly allowed.
func (p AccessPolicy) Allowed(route string, roleID int) bool {
	permitted, restricted := p[route]
	if !restricted {
		return true
	}
	for _, id := range permitted {
		if id == roleID {
			return true
		}
	}
	return false
}

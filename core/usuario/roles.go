package usuario

import "strings"

// Role ids as the backend stores them. 4 (Usuario) is the lowest-privilege
// fallback for anything unrecognized.
const (
	RoleAdmin       = 1
	RoleCoordinador = 2
	RoleDocente     = 3
	RoleUsuario     = 4
)

type Rol struct {
	IDRol  int    `json:"idRol"`
	Nombre string `json:"nombre"`
}

var (
	Roles = []Rol{
		{IDRol: RoleAdmin, Nombre: "Admin"},
		{IDRol: RoleCoordinador, Nombre: "Coordinador"},
		{IDRol: RoleDocente, Nombre: "Docente"},
		{IDRol: RoleUsuario, Nombre: "Usuario"},
	}

	roleLabels = map[int]string{
		RoleAdmin:       "Admin",
		RoleCoordinador: "Coordinador",
		RoleDocente:     "Docente",
		RoleUsuario:     "Usuario",
	}
)

// RoleLabel returns the display name for a role id; unknown ids map to "Usuario".
func RoleLabel(id int) string {
	if label, ok := roleLabels[id]; ok {
		return label
	}
	return roleLabels[RoleUsuario]
}

// RoleFromValue normalizes the heterogeneous role representations the legacy
// directory returns: a number is used directly; text is uppercased and
// matched on substrings ("Administrador del Sistema" → Admin). The second
// return reports whether the input was recognized; unrecognized inputs map
// to RoleUsuario.
func RoleFromValue(v interface{}) (int, bool) {
	switch r := v.(type) {
	case int:
		return r, true
	case int64:
		return int(r), true
	case float64: // JSON numbers decode as float64
		return int(r), true
	case string:
		up := strings.ToUpper(strings.TrimSpace(r))
		switch {
		case strings.Contains(up, "ADMIN"), up == "1":
			return RoleAdmin, true
		case strings.Contains(up, "COORDINADOR"), up == "2":
			return RoleCoordinador, true
		case strings.Contains(up, "DOCENTE"), up == "3":
			return RoleDocente, true
		}
	}
	return RoleUsuario, false
}

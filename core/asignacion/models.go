package asignacion

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type Asignacion struct {
	IDAsignacion    int       `json:"idAsignacion" db:"id_asignacion"`
	IDAula          int       `json:"idAula" db:"id_aula"`
	IDUsuario       int       `json:"idUsuario" db:"id_usuario"`
	FechaAsignacion time.Time `json:"fechaAsignacion" db:"fecha_asignacion"` // UTC
	Estado          bool      `json:"estado" db:"estado"`
}

type NewAsignacion struct {
	IDAula    int `json:"idAula" validate:"required,gt=0"`
	IDUsuario int `json:"idUsuario" validate:"required,gt=0"`
}

func (na *NewAsignacion) Validate(validate *validator.Validate) error {
	return validate.Struct(na)
}

type UpdateAsignacion struct {
	IDAula    int   `json:"idAula" validate:"omitempty,gt=0"`
	IDUsuario int   `json:"idUsuario" validate:"omitempty,gt=0"`
	Estado    *bool `json:"estado"`
}

func (ua *UpdateAsignacion) Validate(orig Asignacion, validate *validator.Validate) error {
	if ua.IDAula == 0 {
		ua.IDAula = orig.IDAula
	}
	if ua.IDUsuario == 0 {
		ua.IDUsuario = orig.IDUsuario
	}
	return validate.Struct(ua)
}

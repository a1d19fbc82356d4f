package aula

import (
	"github.com/go-playground/validator/v10"

	"github.com/yavirac/inventario/core"
)

type Aula struct {
	IDAula    int    `json:"idAula" db:"id_aula"`
	Nombre    string `json:"nombre" db:"nombre"`
	Ubicacion string `json:"ubicacion" db:"ubicacion"`
	Capacidad int    `json:"capacidad" db:"capacidad"`
	Estado    bool   `json:"estado" db:"estado"`
}

type NewAula struct {
	Nombre    string `json:"nombre" validate:"required"`
	Ubicacion string `json:"ubicacion" validate:"required"`
	Capacidad int    `json:"capacidad" validate:"gte=0"`
}

func (na *NewAula) Validate(validate *validator.Validate) error {
	na.Nombre = core.CleanString(na.Nombre)
	na.Ubicacion = core.CleanString(na.Ubicacion)
	return validate.Struct(na)
}

type UpdateAula struct {
	Nombre    string `json:"nombre"`
	Ubicacion string `json:"ubicacion"`
	Capacidad *int   `json:"capacidad" validate:"omitempty,gte=0"`
	Estado    *bool  `json:"estado"`
}

func (ua *UpdateAula) Validate(orig Aula, validate *validator.Validate) error {
	if nombre := core.CleanString(ua.Nombre); nombre != "" {
		ua.Nombre = nombre
	} else {
		ua.Nombre = orig.Nombre
	}
	if ubicacion := core.CleanString(ua.Ubicacion); ubicacion != "" {
		ua.Ubicacion = ubicacion
	} else {
		ua.Ubicacion = orig.Ubicacion
	}
	if ua.Capacidad == nil {
		ua.Capacidad = &orig.Capacidad
	}
	return validate.Struct(ua)
}

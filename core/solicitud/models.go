package solicitud

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yavirac/inventario/core"
)

// Estado values of a solicitud de cambio. A solicitud is born PENDIENTE and
// settles exactly once, into APROBADA or DENEGADA.
const (
	EstadoPendiente = "PENDIENTE"
	EstadoAprobada  = "APROBADA"
	EstadoDenegada  = "DENEGADA"
)

type Solicitud struct {
	IDSolicitud    int       `json:"idSolicitud" db:"id_solicitud"`
	IDDocente      int       `json:"idDocente" db:"id_docente"`
	IDBien         int       `json:"idBien" db:"id_bien"`
	Motivo         string    `json:"motivo" db:"motivo"`
	Estado         string    `json:"estado" db:"estado"`
	FechaSolicitud time.Time `json:"fechaSolicitud" db:"fecha_solicitud"` // UTC
}

func (s *Solicitud) IsPendiente() bool { return s.Estado == EstadoPendiente }

type NewSolicitud struct {
	IDDocente int    `json:"idDocente" validate:"required,gt=0"`
	IDBien    int    `json:"idBien" validate:"required,gt=0"`
	Motivo    string `json:"motivo" validate:"required"`
}

func (ns *NewSolicitud) Validate(validate *validator.Validate) error {
	ns.Motivo = core.CleanString(ns.Motivo)
	return validate.Struct(ns)
}

type UpdateSolicitud struct {
	IDBien int    `json:"idBien" validate:"omitempty,gt=0"`
	Motivo string `json:"motivo"`
}

func (us *UpdateSolicitud) Validate(orig Solicitud, validate *validator.Validate) error {
	if us.IDBien == 0 {
		us.IDBien = orig.IDBien
	}
	if motivo := core.CleanString(us.Motivo); motivo != "" {
		us.Motivo = motivo
	} else {
		us.Motivo = orig.Motivo
	}
	return validate.Struct(us)
}

package reporte

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yavirac/inventario/core"
)

// Estado values of a reporte de incidencia.
const (
	EstadoAbierto   = "ABIERTO"
	EstadoEnProceso = "EN_PROCESO"
	EstadoResuelto  = "RESUELTO"
)

type Reporte struct {
	IDReporte    int       `json:"idReporte" db:"id_reporte"`
	IDUsuario    int       `json:"idUsuario" db:"id_usuario"`
	IDBien       int       `json:"idBien" db:"id_bien"`
	Descripcion  string    `json:"descripcion" db:"descripcion"`
	Estado       string    `json:"estado" db:"estado"`
	FechaReporte time.Time `json:"fechaReporte" db:"fecha_reporte"` // UTC
}

type NewReporte struct {
	IDUsuario   int    `json:"idUsuario" validate:"required,gt=0"`
	IDBien      int    `json:"idBien" validate:"required,gt=0"`
	Descripcion string `json:"descripcion" validate:"required"`
}

func (nr *NewReporte) Validate(validate *validator.Validate) error {
	nr.Descripcion = core.CleanString(nr.Descripcion)
	return validate.Struct(nr)
}

type UpdateReporte struct {
	Descripcion string `json:"descripcion"`
	Estado      string `json:"estado" validate:"omitempty,oneof=ABIERTO EN_PROCESO RESUELTO"`
}

func (ur *UpdateReporte) Validate(orig Reporte, validate *validator.Validate) error {
	if desc := core.CleanString(ur.Descripcion); desc != "" {
		ur.Descripcion = desc
	} else {
		ur.Descripcion = orig.Descripcion
	}
	if ur.Estado == "" {
		ur.Estado = orig.Estado
	}
	return validate.Struct(ur)
}

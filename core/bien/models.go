package bien

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/yavirac/inventario/core"
)

// Estado values a Bien moves through.
const (
	EstadoDisponible = "DISPONIBLE"
	EstadoEnUso      = "EN_USO"
	EstadoDanado     = "DANADO"
	EstadoDadoDeBaja = "DADO_DE_BAJA"
)

type Bien struct {
	IDBien      int    `json:"idBien" db:"id_bien"`
	Codigo      string `json:"codigo" db:"codigo"`
	Nombre      string `json:"nombre" db:"nombre"`
	Descripcion string `json:"descripcion" db:"descripcion"`
	IDCategoria int    `json:"idCategoria" db:"id_categoria"`
	IDAula      int    `json:"idAula" db:"id_aula"`
	Estado      string `json:"estado" db:"estado"`
}

type Categoria struct {
	IDCategoria int    `json:"idCategoria"`
	Nombre      string `json:"nombre"`
}

// Categorias is the institution's fixed asset taxonomy.
var Categorias = []Categoria{
	{IDCategoria: 1, Nombre: "Mobiliario"},
	{IDCategoria: 2, Nombre: "Equipo de Cómputo"},
	{IDCategoria: 3, Nombre: "Equipo Audiovisual"},
	{IDCategoria: 4, Nombre: "Equipo de Laboratorio"},
	{IDCategoria: 5, Nombre: "Otros"},
}

func ValidCategoria(id int) bool {
	for _, c := range Categorias {
		if c.IDCategoria == id {
			return true
		}
	}
	return false
}

type NewBien struct {
	Nombre      string `json:"nombre" validate:"required"`
	Descripcion string `json:"descripcion"`
	IDCategoria int    `json:"idCategoria" validate:"required,categoriaid"`
	IDAula      int    `json:"idAula" validate:"gte=0"`
}

func (nb *NewBien) Validate(validate *validator.Validate) error {
	nb.Nombre = core.CleanString(nb.Nombre)
	nb.Descripcion = core.CleanString(nb.Descripcion)
	return validate.Struct(nb)
}

type UpdateBien struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	IDCategoria int    `json:"idCategoria" validate:"omitempty,categoriaid"`
	IDAula      *int   `json:"idAula" validate:"omitempty,gte=0"`
	Estado      string `json:"estado" validate:"omitempty,oneof=DISPONIBLE EN_USO DANADO DADO_DE_BAJA"`
}

func (ub *UpdateBien) Validate(orig Bien, validate *validator.Validate) error {
	if nombre := core.CleanString(ub.Nombre); nombre != "" {
		ub.Nombre = nombre
	} else {
		ub.Nombre = orig.Nombre
	}
	if desc := core.CleanString(ub.Descripcion); desc != "" {
		ub.Descripcion = desc
	} else {
		ub.Descripcion = orig.Descripcion
	}
	if ub.IDCategoria == 0 {
		ub.IDCategoria = orig.IDCategoria
	}
	if ub.IDAula == nil {
		ub.IDAula = &orig.IDAula
	}
	if ub.Estado == "" {
		ub.Estado = orig.Estado
	}
	return validate.Struct(ub)
}

type QueryFilter struct {
	Search      string `query:"search"`
	IDAula      int    `query:"idAula"`
	IDCategoria int    `query:"idCategoria"`
	Estado      string `query:"estado"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.IDAula == 0 && qf.IDCategoria == 0 && qf.Estado == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Estado = core.CleanString(qf.Estado)
}

// InitValidators registers bien-specific validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation("categoriaid", func(fl validator.FieldLevel) bool {
		return ValidCategoria(int(fl.Field().Int()))
	})
	core.RegisterCustomTranslation(validate, translator, "categoriaid", "unknown categoría id")
}

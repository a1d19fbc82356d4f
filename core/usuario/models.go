package usuario

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/yavirac/inventario/core"
)

type Usuario struct {
	IDUsuario     int       `json:"idUsuario" db:"id_usuario"`
	Nombre        string    `json:"nombre" db:"nombre"`
	Cedula        string    `json:"cedula,omitempty" db:"cedula"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  []byte    `json:"-" db:"password_hash"`
	Estado        bool      `json:"estado" db:"estado"`
	FechaRegistro time.Time `json:"fechaRegistro" db:"fecha_registro"` // UTC
	IDRol         int       `json:"idRol" db:"id_rol"`
	Rol           *Rol      `json:"rol,omitempty" db:"-"`
}

func (u *Usuario) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *Usuario) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *Usuario) IsAdmin() bool       { return u.IDRol == RoleAdmin }
func (u *Usuario) IsCoordinador() bool { return u.IDRol == RoleCoordinador }
func (u *Usuario) IsDocente() bool     { return u.IDRol == RoleDocente }

func (u *Usuario) RolLabel() string { return RoleLabel(u.IDRol) }

// NewUsuario contains information needed to create a new Usuario.
type NewUsuario struct {
	Nombre          string `json:"nombre" validate:"required"`
	Cedula          string `json:"cedula" validate:"omitempty,cedula"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
	IDRol           int    `json:"idRol" validate:"required,rolid"`
}

func (nu *NewUsuario) Validate(validate *validator.Validate, svc ServiceInterface) error {
	nu.Nombre = core.CleanString(nu.Nombre)
	nu.Cedula = core.CleanString(nu.Cedula)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(nu.Email, nu.Cedula)
}

// UpdateUsuario defines what information may be provided to modify an existing Usuario.
type UpdateUsuario struct {
	Nombre          string `json:"nombre"`
	Cedula          string `json:"cedula" validate:"omitempty,cedula"`
	Email           string `json:"email" validate:"omitempty,email"`
	Estado          *bool  `json:"estado"`
	IDRol           int    `json:"idRol" validate:"omitempty,rolid"`
	Password        string `json:"password" validate:"omitempty"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUsuario) Validate(orig Usuario, validate *validator.Validate, svc ServiceInterface) error {
	if nombre := core.CleanString(uu.Nombre); nombre != "" {
		uu.Nombre = nombre
	} else {
		uu.Nombre = orig.Nombre
	}

	if email := core.CleanString(uu.Email, true /* lower */); email != "" {
		uu.Email = email
	} else {
		uu.Email = orig.Email
	}

	if cedula := core.CleanString(uu.Cedula); cedula != "" {
		uu.Cedula = cedula
	} else {
		uu.Cedula = orig.Cedula
	}

	if uu.IDRol == 0 {
		uu.IDRol = orig.IDRol
	}

	if err := validate.Struct(uu); err != nil {
		return err
	}
	return svc.CheckUniqueness(uu.Email, uu.Cedula, orig)
}

type QueryFilter struct {
	Search string `query:"search"`
	IDRol  int    `query:"idRol"`
	Estado *bool  `query:"estado"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.IDRol == 0 && qf.Estado == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// InitValidators registers usuario-specific validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation("rolid", func(fl validator.FieldLevel) bool {
		id := fl.Field().Int()
		_, ok := roleLabels[int(id)]
		return ok
	})
	core.RegisterCustomTranslation(validate, translator, "rolid", "unknown role id")
}

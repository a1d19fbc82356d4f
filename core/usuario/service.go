package usuario

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/yavirac/inventario/core"
)

var (
	// errors
	ErrNotFound     = errors.New("usuario not found")
	ErrEmailExists  = errors.New("a usuario with this email already exists")
	ErrCedulaExists = errors.New("a usuario with this cédula already exists")
)

type (
	Repository interface {
		CheckUniqueness(ctx context.Context, email, cedula string, excluded ...Usuario) error
		CreateUsuario(ctx context.Context, usr Usuario) (Usuario, error)
		QueryAllUsuarios(ctx context.Context) ([]Usuario, error)
		GetUsuarioByID(ctx context.Context, id int) (Usuario, error)
		GetUsuarioByEmail(ctx context.Context, email string) (Usuario, error)
		// FilterUsuarios applies AND on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Nombre, Cedula or Email.
		FilterUsuarios(ctx context.Context, filter QueryFilter) ([]Usuario, error)
		UpdateUsuario(ctx context.Context, usr Usuario, estado *bool) (Usuario, error)
		DeleteUsuariosByID(ctx context.Context, ids ...int) error
	}

	ServiceInterface interface {
		CheckUniqueness(email, cedula string, excluded ...Usuario) error
		Create(ctx context.Context, nu NewUsuario) (Usuario, error)
		Query(ctx context.Context, filter *QueryFilter) ([]Usuario, error)
		GetByID(ctx context.Context, id int) (Usuario, error)
		GetByEmail(ctx context.Context, email string) (Usuario, error)
		Update(ctx context.Context, id int, uu UpdateUsuario) (Usuario, error)
		Delete(ctx context.Context, ids ...int) error
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckUniqueness(email, cedula string, excluded ...Usuario) error {
	if err := svc.repo.CheckUniqueness(context.Background(), email, cedula, excluded...); err != nil {
		var field string
		switch errors.Cause(err) {
		case ErrEmailExists:
			field = "email"
		case ErrCedulaExists:
			field = "cedula"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nu NewUsuario) (Usuario, error) {
	usr := Usuario{
		Nombre:        nu.Nombre,
		Cedula:        nu.Cedula,
		Email:         nu.Email,
		Estado:        true,
		IDRol:         nu.IDRol,
		FechaRegistro: time.Now().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return Usuario{}, err
	}
	return svc.repo.CreateUsuario(ctx, usr)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter) ([]Usuario, error) {
	if filter == nil || filter.IsEmpty() {
		return svc.repo.QueryAllUsuarios(ctx)
	}
	return svc.repo.FilterUsuarios(ctx, *filter)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Usuario, error) {
	return svc.repo.GetUsuarioByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Usuario, error) {
	return svc.repo.GetUsuarioByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) Update(ctx context.Context, id int, uu UpdateUsuario) (Usuario, error) {
	usr := Usuario{
		IDUsuario: id,
		Nombre:    uu.Nombre,
		Cedula:    uu.Cedula,
		Email:     uu.Email,
		IDRol:     uu.IDRol,
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return Usuario{}, err
		}
	}
	return svc.repo.UpdateUsuario(ctx, usr, uu.Estado)
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	return svc.repo.DeleteUsuariosByID(ctx, ids...)
}

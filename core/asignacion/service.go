package asignacion

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/yavirac/inventario/core"
)

var (
	ErrNotFound = errors.New("asignación not found")
	// ErrAulaAsignada rejects a second active asignación for the same aula.
	ErrAulaAsignada = errors.New("the aula already has an active asignación")
)

type (
	Repository interface {
		CreateAsignacion(ctx context.Context, a Asignacion) (Asignacion, error)
		QueryAllAsignaciones(ctx context.Context) ([]Asignacion, error)
		GetAsignacionByID(ctx context.Context, id int) (Asignacion, error)
		// GetActiveAsignacionByAula returns ErrNotFound when the aula is free.
		GetActiveAsignacionByAula(ctx context.Context, idAula int) (Asignacion, error)
		QueryAsignacionesByUsuario(ctx context.Context, idUsuario int) ([]Asignacion, error)
		UpdateAsignacion(ctx context.Context, a Asignacion, estado *bool) (Asignacion, error)
		DeleteAsignacionesByID(ctx context.Context, ids ...int) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, na NewAsignacion) (Asignacion, error)
		Query(ctx context.Context) ([]Asignacion, error)
		GetByID(ctx context.Context, id int) (Asignacion, error)
		QueryByUsuario(ctx context.Context, idUsuario int) ([]Asignacion, error)
		Update(ctx context.Context, id int, ua UpdateAsignacion) (Asignacion, error)
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

// checkAulaFree enforces at most one active asignación per aula. excluded
// skips the asignación being updated.
func (svc *Service) checkAulaFree(ctx context.Context, idAula int, excluded ...int) error {
	active, err := svc.repo.GetActiveAsignacionByAula(ctx, idAula)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return nil
		}
		return err
	}
	for _, id := range excluded {
		if active.IDAsignacion == id {
			return nil
		}
	}
	return core.NewValidationError(ErrAulaAsignada,
		core.FieldError{Field: "idAula", Error: ErrAulaAsignada.Error()})
}

func (svc *Service) Create(ctx context.Context, na NewAsignacion) (Asignacion, error) {
	if err := svc.checkAulaFree(ctx, na.IDAula); err != nil {
		return Asignacion{}, err
	}
	a := Asignacion{
		IDAula:          na.IDAula,
		IDUsuario:       na.IDUsuario,
		FechaAsignacion: time.Now().UTC(),
		Estado:          true,
	}
	return svc.repo.CreateAsignacion(ctx, a)
}

func (svc *Service) Query(ctx context.Context) ([]Asignacion, error) {
	return svc.repo.QueryAllAsignaciones(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Asignacion, error) {
	return svc.repo.GetAsignacionByID(ctx, id)
}

func (svc *Service) QueryByUsuario(ctx context.Context, idUsuario int) ([]Asignacion, error) {
	return svc.repo.QueryAsignacionesByUsuario(ctx, idUsuario)
}

func (svc *Service) Update(ctx context.Context, id int, ua UpdateAsignacion) (Asignacion, error) {
	// re-activating or moving an asignación must not double-book the aula
	if ua.Estado == nil || *ua.Estado {
		if err := svc.checkAulaFree(ctx, ua.IDAula, id); err != nil {
			return Asignacion{}, err
		}
	}
	a := Asignacion{
		IDAsignacion: id,
		IDAula:       ua.IDAula,
		IDUsuario:    ua.IDUsuario,
	}
	return svc.repo.UpdateAsignacion(ctx, a, ua.Estado)
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	return svc.repo.DeleteAsignacionesByID(ctx, ids...)
}

package aula

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("aula not found")

type (
	Repository interface {
		CreateAula(ctx context.Context, a Aula) (Aula, error)
		QueryAllAulas(ctx context.Context) ([]Aula, error)
		GetAulaByID(ctx context.Context, id int) (Aula, error)
		UpdateAula(ctx context.Context, a Aula, estado *bool) (Aula, error)
		DeleteAulasByID(ctx context.Context, ids ...int) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, na NewAula) (Aula, error)
		Query(ctx context.Context) ([]Aula, error)
		GetByID(ctx context.Context, id int) (Aula, error)
		Update(ctx context.Context, id int, ua UpdateAula) (Aula, error)
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

func (svc *Service) Create(ctx context.Context, na NewAula) (Aula, error) {
	a := Aula{
		Nombre:    na.Nombre,
		Ubicacion: na.Ubicacion,
		Capacidad: na.Capacidad,
		Estado:    true,
	}
	return svc.repo.CreateAula(ctx, a)
}

func (svc *Service) Query(ctx context.Context) ([]Aula, error) {
	return svc.repo.QueryAllAulas(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Aula, error) {
	return svc.repo.GetAulaByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id int, ua UpdateAula) (Aula, error) {
	a := Aula{
		IDAula:    id,
		Nombre:    ua.Nombre,
		Ubicacion: ua.Ubicacion,
	}
	if ua.Capacidad != nil {
		a.Capacidad = *ua.Capacidad
	}
	return svc.repo.UpdateAula(ctx, a, ua.Estado)
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	return svc.repo.DeleteAulasByID(ctx, ids...)
}

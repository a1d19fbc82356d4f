package reporte

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("reporte not found")

type (
	Repository interface {
		CreateReporte(ctx context.Context, r Reporte) (Reporte, error)
		QueryAllReportes(ctx context.Context) ([]Reporte, error)
		GetReporteByID(ctx context.Context, id int) (Reporte, error)
		QueryReportesByUsuario(ctx context.Context, idUsuario int) ([]Reporte, error)
		UpdateReporte(ctx context.Context, r Reporte) (Reporte, error)
		DeleteReportesByID(ctx context.Context, ids ...int) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, nr NewReporte) (Reporte, error)
		Query(ctx context.Context) ([]Reporte, error)
		GetByID(ctx context.Context, id int) (Reporte, error)
		QueryByUsuario(ctx context.Context, idUsuario int) ([]Reporte, error)
		Update(ctx context.Context, id int, ur UpdateReporte) (Reporte, error)
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

func (svc *Service) Create(ctx context.Context, nr NewReporte) (Reporte, error) {
	r := Reporte{
		IDUsuario:    nr.IDUsuario,
		IDBien:       nr.IDBien,
		Descripcion:  nr.Descripcion,
		Estado:       EstadoAbierto,
		FechaReporte: time.Now().UTC(),
	}
	return svc.repo.CreateReporte(ctx, r)
}

func (svc *Service) Query(ctx context.Context) ([]Reporte, error) {
	return svc.repo.QueryAllReportes(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Reporte, error) {
	return svc.repo.GetReporteByID(ctx, id)
}

func (svc *Service) QueryByUsuario(ctx context.Context, idUsuario int) ([]Reporte, error) {
	return svc.repo.QueryReportesByUsuario(ctx, idUsuario)
}

func (svc *Service) Update(ctx context.Context, id int, ur UpdateReporte) (Reporte, error) {
	orig, err := svc.repo.GetReporteByID(ctx, id)
	if err != nil {
		return Reporte{}, err
	}
	orig.Descripcion = ur.Descripcion
	orig.Estado = ur.Estado
	return svc.repo.UpdateReporte(ctx, orig)
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	return svc.repo.DeleteReportesByID(ctx, ids...)
}

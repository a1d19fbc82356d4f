package bien

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("bien not found")

type (
	Repository interface {
		CreateBien(ctx context.Context, b Bien) (Bien, error)
		QueryAllBienes(ctx context.Context) ([]Bien, error)
		GetBienByID(ctx context.Context, id int) (Bien, error)
		GetBienByCodigo(ctx context.Context, codigo string) (Bien, error)
		// FilterBienes applies AND on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Codigo, Nombre or Descripcion.
		FilterBienes(ctx context.Context, filter QueryFilter) ([]Bien, error)
		UpdateBien(ctx context.Context, b Bien) (Bien, error)
		DeleteBienesByID(ctx context.Context, ids ...int) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, nb NewBien) (Bien, error)
		Query(ctx context.Context, filter *QueryFilter) ([]Bien, error)
		GetByID(ctx context.Context, id int) (Bien, error)
		GetByCodigo(ctx context.Context, codigo string) (Bien, error)
		Update(ctx context.Context, id int, ub UpdateBien) (Bien, error)
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

// newCodigo mints an inventory code like "YAV-1A2B3C4D".
func newCodigo() string {
	id := uuid.New()
	return fmt.Sprintf("YAV-%s", strings.ToUpper(id.String()[:8]))
}

func (svc *Service) Create(ctx context.Context, nb NewBien) (Bien, error) {
	b := Bien{
		Codigo:      newCodigo(),
		Nombre:      nb.Nombre,
		Descripcion: nb.Descripcion,
		IDCategoria: nb.IDCategoria,
		IDAula:      nb.IDAula,
		Estado:      EstadoDisponible,
	}
	return svc.repo.CreateBien(ctx, b)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter) ([]Bien, error) {
	if filter == nil || filter.IsEmpty() {
		return svc.repo.QueryAllBienes(ctx)
	}
	return svc.repo.FilterBienes(ctx, *filter)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Bien, error) {
	return svc.repo.GetBienByID(ctx, id)
}

func (svc *Service) GetByCodigo(ctx context.Context, codigo string) (Bien, error) {
	return svc.repo.GetBienByCodigo(ctx, codigo)
}

func (svc *Service) Update(ctx context.Context, id int, ub UpdateBien) (Bien, error) {
	b := Bien{
		IDBien:      id,
		Nombre:      ub.Nombre,
		Descripcion: ub.Descripcion,
		IDCategoria: ub.IDCategoria,
		Estado:      ub.Estado,
	}
	if ub.IDAula != nil {
		b.IDAula = *ub.IDAula
	}
	return svc.repo.UpdateBien(ctx, b)
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	return svc.repo.DeleteBienesByID(ctx, ids...)
}

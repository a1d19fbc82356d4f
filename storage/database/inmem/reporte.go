package inmemdb

import (
	"context"
	"sort"

	"github.com/yavirac/inventario/core/reporte"
)

type reporteRepository struct {
	db *reporteTable
}

func NewReporteRepository(db *DB) reporte.Repository {
	return &reporteRepository{db: db.reporte}
}

func (repo *reporteRepository) query() []reporte.Reporte {
	reps := make([]reporte.Reporte, 0, len(repo.db.table))
	for _, r := range repo.db.table {
		reps = append(reps, *r)
	}
	sort.Slice(reps, func(i, j int) bool { return reps[i].IDReporte < reps[j].IDReporte })
	return reps
}

func (repo *reporteRepository) CreateReporte(_ context.Context, r reporte.Reporte) (reporte.Reporte, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pkCount++
	r.IDReporte = repo.db.pkCount
	repo.db.table[r.IDReporte] = &r
	return r, nil
}

func (repo *reporteRepository) QueryAllReportes(_ context.Context) ([]reporte.Reporte, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *reporteRepository) GetReporteByID(_ context.Context, id int) (reporte.Reporte, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if r, ok := repo.db.table[id]; ok {
		return *r, nil
	}
	return reporte.Reporte{}, reporte.ErrNotFound
}

func (repo *reporteRepository) QueryReportesByUsuario(_ context.Context, idUsuario int) ([]reporte.Reporte, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	reps := make([]reporte.Reporte, 0)
	for _, r := range repo.query() {
		if r.IDUsuario == idUsuario {
			reps = append(reps, r)
		}
	}
	return reps, nil
}

func (repo *reporteRepository) UpdateReporte(_ context.Context, r reporte.Reporte) (reporte.Reporte, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[r.IDReporte]
	if !ok {
		return reporte.Reporte{}, reporte.ErrNotFound
	}

	orig.Descripcion = r.Descripcion
	orig.Estado = r.Estado
	return *orig, nil
}

func (repo *reporteRepository) DeleteReportesByID(_ context.Context, ids ...int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

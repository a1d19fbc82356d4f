package inmemdb

import (
	"context"
	"sort"

	"github.com/yavirac/inventario/core/asignacion"
)

type asignacionRepository struct {
	db *asignacionTable
}

func NewAsignacionRepository(db *DB) asignacion.Repository {
	return &asignacionRepository{db: db.asignacion}
}

func (repo *asignacionRepository) query() []asignacion.Asignacion {
	asgs := make([]asignacion.Asignacion, 0, len(repo.db.table))
	for _, a := range repo.db.table {
		asgs = append(asgs, *a)
	}
	sort.Slice(asgs, func(i, j int) bool { return asgs[i].IDAsignacion < asgs[j].IDAsignacion })
	return asgs
}

func (repo *asignacionRepository) CreateAsignacion(_ context.Context, a asignacion.Asignacion) (asignacion.Asignacion, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pkCount++
	a.IDAsignacion = repo.db.pkCount
	repo.db.table[a.IDAsignacion] = &a
	return a, nil
}

func (repo *asignacionRepository) QueryAllAsignaciones(_ context.Context) ([]asignacion.Asignacion, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *asignacionRepository) GetAsignacionByID(_ context.Context, id int) (asignacion.Asignacion, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if a, ok := repo.db.table[id]; ok {
		return *a, nil
	}
	return asignacion.Asignacion{}, asignacion.ErrNotFound
}

func (repo *asignacionRepository) GetActiveAsignacionByAula(_ context.Context, idAula int) (asignacion.Asignacion, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, a := range repo.query() {
		if a.IDAula == idAula && a.Estado {
			return a, nil
		}
	}
	return asignacion.Asignacion{}, asignacion.ErrNotFound
}

func (repo *asignacionRepository) QueryAsignacionesByUsuario(_ context.Context, idUsuario int) ([]asignacion.Asignacion, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	asgs := make([]asignacion.Asignacion, 0)
	for _, a := range repo.query() {
		if a.IDUsuario == idUsuario {
			asgs = append(asgs, a)
		}
	}
	return asgs, nil
}

func (repo *asignacionRepository) UpdateAsignacion(_ context.Context, a asignacion.Asignacion, estado *bool) (asignacion.Asignacion, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[a.IDAsignacion]
	if !ok {
		return asignacion.Asignacion{}, asignacion.ErrNotFound
	}

	orig.IDAula = a.IDAula
	orig.IDUsuario = a.IDUsuario
	if estado != nil {
		orig.Estado = *estado
	}
	return *orig, nil
}

func (repo *asignacionRepository) DeleteAsignacionesByID(_ context.Context, ids ...int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

package inmemdb

import (
	"context"
	"sort"

	"github.com/yavirac/inventario/core/aula"
)

type aulaRepository struct {
	db *aulaTable
}

func NewAulaRepository(db *DB) aula.Repository {
	return &aulaRepository{db: db.aula}
}

func (repo *aulaRepository) query() []aula.Aula {
	aulas := make([]aula.Aula, 0, len(repo.db.table))
	for _, a := range repo.db.table {
		aulas = append(aulas, *a)
	}
	sort.Slice(aulas, func(i, j int) bool { return aulas[i].IDAula < aulas[j].IDAula })
	return aulas
}

func (repo *aulaRepository) CreateAula(_ context.Context, a aula.Aula) (aula.Aula, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pkCount++
	a.IDAula = repo.db.pkCount
	repo.db.table[a.IDAula] = &a
	return a, nil
}

func (repo *aulaRepository) QueryAllAulas(_ context.Context) ([]aula.Aula, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *aulaRepository) GetAulaByID(_ context.Context, id int) (aula.Aula, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if a, ok := repo.db.table[id]; ok {
		return *a, nil
	}
	return aula.Aula{}, aula.ErrNotFound
}

func (repo *aulaRepository) UpdateAula(_ context.Context, a aula.Aula, estado *bool) (aula.Aula, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[a.IDAula]
	if !ok {
		return aula.Aula{}, aula.ErrNotFound
	}

	orig.Nombre = a.Nombre
	orig.Ubicacion = a.Ubicacion
	orig.Capacidad = a.Capacidad
	if estado != nil {
		orig.Estado = *estado
	}
	return *orig, nil
}

func (repo *aulaRepository) DeleteAulasByID(_ context.Context, ids ...int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

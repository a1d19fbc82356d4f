package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/yavirac/inventario/core/bien"
)

type bienRepository struct {
	db *bienTable
}

func NewBienRepository(db *DB) bien.Repository {
	return &bienRepository{db: db.bien}
}

func (repo *bienRepository) query() []bien.Bien {
	bienes := make([]bien.Bien, 0, len(repo.db.table))
	for _, b := range repo.db.table {
		bienes = append(bienes, *b)
	}
	sort.Slice(bienes, func(i, j int) bool { return bienes[i].IDBien < bienes[j].IDBien })
	return bienes
}

func (repo *bienRepository) CreateBien(_ context.Context, b bien.Bien) (bien.Bien, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pkCount++
	b.IDBien = repo.db.pkCount
	repo.db.table[b.IDBien] = &b
	return b, nil
}

func (repo *bienRepository) QueryAllBienes(_ context.Context) ([]bien.Bien, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *bienRepository) GetBienByID(_ context.Context, id int) (bien.Bien, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if b, ok := repo.db.table[id]; ok {
		return *b, nil
	}
	return bien.Bien{}, bien.ErrNotFound
}

func (repo *bienRepository) GetBienByCodigo(_ context.Context, codigo string) (bien.Bien, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, b := range repo.db.table {
		if b.Codigo == codigo {
			return *b, nil
		}
	}
	return bien.Bien{}, bien.ErrNotFound
}

func (repo *bienRepository) FilterBienes(_ context.Context, filter bien.QueryFilter) ([]bien.Bien, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	search := strings.ToLower(filter.Search)
	bienes := make([]bien.Bien, 0)
	for _, b := range repo.query() {
		if search != "" &&
			!strings.Contains(strings.ToLower(b.Codigo), search) &&
			!strings.Contains(strings.ToLower(b.Nombre), search) &&
			!strings.Contains(strings.ToLower(b.Descripcion), search) {
			continue
		}
		if filter.IDAula != 0 && b.IDAula != filter.IDAula {
			continue
		}
		if filter.IDCategoria != 0 && b.IDCategoria != filter.IDCategoria {
			continue
		}
		if filter.Estado != "" && b.Estado != filter.Estado {
			continue
		}
		bienes = append(bienes, b)
	}
	return bienes, nil
}

func (repo *bienRepository) UpdateBien(_ context.Context, b bien.Bien) (bien.Bien, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[b.IDBien]
	if !ok {
		return bien.Bien{}, bien.ErrNotFound
	}

	orig.Nombre = b.Nombre
	orig.Descripcion = b.Descripcion
	orig.IDCategoria = b.IDCategoria
	orig.IDAula = b.IDAula
	orig.Estado = b.Estado
	return *orig, nil
}

func (repo *bienRepository) DeleteBienesByID(_ context.Context, ids ...int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

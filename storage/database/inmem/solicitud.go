package inmemdb

import (
	"context"
	"sort"

	"github.com/yavirac/inventario/core/solicitud"
)

type solicitudRepository struct {
	db *solicitudTable
}

func NewSolicitudRepository(db *DB) solicitud.Repository {
	return &solicitudRepository{db: db.solicitud}
}

func (repo *solicitudRepository) query() []solicitud.Solicitud {
	sols := make([]solicitud.Solicitud, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		sols = append(sols, *s)
	}
	sort.Slice(sols, func(i, j int) bool { return sols[i].IDSolicitud < sols[j].IDSolicitud })
	return sols
}

func (repo *solicitudRepository) CreateSolicitud(_ context.Context, s solicitud.Solicitud) (solicitud.Solicitud, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pkCount++
	s.IDSolicitud = repo.db.pkCount
	repo.db.table[s.IDSolicitud] = &s
	return s, nil
}

func (repo *solicitudRepository) QueryAllSolicitudes(_ context.Context) ([]solicitud.Solicitud, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *solicitudRepository) GetSolicitudByID(_ context.Context, id int) (solicitud.Solicitud, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return solicitud.Solicitud{}, solicitud.ErrNotFound
}

func (repo *solicitudRepository) QuerySolicitudesByDocente(_ context.Context, idDocente int) ([]solicitud.Solicitud, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	sols := make([]solicitud.Solicitud, 0)
	for _, s := range repo.query() {
		if s.IDDocente == idDocente {
			sols = append(sols, s)
		}
	}
	return sols, nil
}

func (repo *solicitudRepository) UpdateSolicitud(_ context.Context, s solicitud.Solicitud) (solicitud.Solicitud, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[s.IDSolicitud]
	if !ok {
		return solicitud.Solicitud{}, solicitud.ErrNotFound
	}

	orig.IDBien = s.IDBien
	orig.Motivo = s.Motivo
	orig.Estado = s.Estado
	return *orig, nil
}

func (repo *solicitudRepository) DeleteSolicitudesByID(_ context.Context, ids ...int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

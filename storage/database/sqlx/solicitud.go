package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/yavirac/inventario/core/solicitud"
)

const solicitudColumns = "id_solicitud, id_docente, id_bien, motivo, estado, fecha_solicitud"

type solicitudRepository struct {
	db *sqlx.DB
}

func NewSolicitudRepository(db *sqlx.DB) solicitud.Repository {
	return &solicitudRepository{db: db}
}

func (repo *solicitudRepository) CreateSolicitud(ctx context.Context, s solicitud.Solicitud) (solicitud.Solicitud, error) {
	query := `
INSERT INTO solicitud (id_docente, id_bien, motivo, estado, fecha_solicitud)
VALUES ($1, $2, $3, $4, $5)
RETURNING id_solicitud`
	err := repo.db.GetContext(ctx, &s.IDSolicitud, query,
		s.IDDocente, s.IDBien, s.Motivo, s.Estado, s.FechaSolicitud)
	if err != nil {
		return solicitud.Solicitud{}, errors.Wrap(err, "creating solicitud")
	}
	return s, nil
}

func (repo *solicitudRepository) QueryAllSolicitudes(ctx context.Context) ([]solicitud.Solicitud, error) {
	sols := make([]solicitud.Solicitud, 0)
	query := fmt.Sprintf(`SELECT %s FROM solicitud ORDER BY id_solicitud`, solicitudColumns)
	if err := repo.db.SelectContext(ctx, &sols, query); err != nil {
		return nil, errors.Wrap(err, "querying solicitudes")
	}
	return sols, nil
}

func (repo *solicitudRepository) GetSolicitudByID(ctx context.Context, id int) (solicitud.Solicitud, error) {
	var s solicitud.Solicitud
	query := fmt.Sprintf(`SELECT %s FROM solicitud WHERE id_solicitud = $1`, solicitudColumns)
	if err := repo.db.GetContext(ctx, &s, query, id); err != nil {
		if err == sql.ErrNoRows {
			return solicitud.Solicitud{}, solicitud.ErrNotFound
		}
		return solicitud.Solicitud{}, errors.Wrap(err, "getting solicitud by id")
	}
	return s, nil
}

func (repo *solicitudRepository) QuerySolicitudesByDocente(ctx context.Context, idDocente int) ([]solicitud.Solicitud, error) {
	sols := make([]solicitud.Solicitud, 0)
	query := fmt.Sprintf(`SELECT %s FROM solicitud WHERE id_docente = $1 ORDER BY id_solicitud`, solicitudColumns)
	if err := repo.db.SelectContext(ctx, &sols, query, idDocente); err != nil {
		return nil, errors.Wrap(err, "querying solicitudes by docente")
	}
	return sols, nil
}

func (repo *solicitudRepository) UpdateSolicitud(ctx context.Context, s solicitud.Solicitud) (solicitud.Solicitud, error) {
	query := fmt.Sprintf(`
UPDATE solicitud
SET id_bien = $1, motivo = $2, estado = $3
WHERE id_solicitud = $4
RETURNING %s`, solicitudColumns)

	var updated solicitud.Solicitud
	if err := repo.db.GetContext(ctx, &updated, query, s.IDBien, s.Motivo, s.Estado, s.IDSolicitud); err != nil {
		if err == sql.ErrNoRows {
			return solicitud.Solicitud{}, solicitud.ErrNotFound
		}
		return solicitud.Solicitud{}, errors.Wrap(err, "updating solicitud")
	}
	return updated, nil
}

func (repo *solicitudRepository) DeleteSolicitudesByID(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM solicitud WHERE id_solicitud IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting solicitudes")
	}
	return nil
}

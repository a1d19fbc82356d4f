package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/yavirac/inventario/core/reporte"
)

const reporteColumns = "id_reporte, id_usuario, id_bien, descripcion, estado, fecha_reporte"

type reporteRepository struct {
	db *sqlx.DB
}

func NewReporteRepository(db *sqlx.DB) reporte.Repository {
	return &reporteRepository{db: db}
}

func (repo *reporteRepository) CreateReporte(ctx context.Context, r reporte.Reporte) (reporte.Reporte, error) {
	query := `
INSERT INTO reporte (id_usuario, id_bien, descripcion, estado, fecha_reporte)
VALUES ($1, $2, $3, $4, $5)
RETURNING id_reporte`
	err := repo.db.GetContext(ctx, &r.IDReporte, query,
		r.IDUsuario, r.IDBien, r.Descripcion, r.Estado, r.FechaReporte)
	if err != nil {
		return reporte.Reporte{}, errors.Wrap(err, "creating reporte")
	}
	return r, nil
}

func (repo *reporteRepository) QueryAllReportes(ctx context.Context) ([]reporte.Reporte, error) {
	reps := make([]reporte.Reporte, 0)
	query := fmt.Sprintf(`SELECT %s FROM reporte ORDER BY id_reporte`, reporteColumns)
	if err := repo.db.SelectContext(ctx, &reps, query); err != nil {
		return nil, errors.Wrap(err, "querying reportes")
	}
	return reps, nil
}

func (repo *reporteRepository) GetReporteByID(ctx context.Context, id int) (reporte.Reporte, error) {
	var r reporte.Reporte
	query := fmt.Sprintf(`SELECT %s FROM reporte WHERE id_reporte = $1`, reporteColumns)
	if err := repo.db.GetContext(ctx, &r, query, id); err != nil {
		if err == sql.ErrNoRows {
			return reporte.Reporte{}, reporte.ErrNotFound
		}
		return reporte.Reporte{}, errors.Wrap(err, "getting reporte by id")
	}
	return r, nil
}

func (repo *reporteRepository) QueryReportesByUsuario(ctx context.Context, idUsuario int) ([]reporte.Reporte, error) {
	reps := make([]reporte.Reporte, 0)
	query := fmt.Sprintf(`SELECT %s FROM reporte WHERE id_usuario = $1 ORDER BY id_reporte`, reporteColumns)
	if err := repo.db.SelectContext(ctx, &reps, query, idUsuario); err != nil {
		return nil, errors.Wrap(err, "querying reportes by usuario")
	}
	return reps, nil
}

func (repo *reporteRepository) UpdateReporte(ctx context.Context, r reporte.Reporte) (reporte.Reporte, error) {
	query := fmt.Sprintf(`
UPDATE reporte
SET descripcion = $1, estado = $2
WHERE id_reporte = $3
RETURNING %s`, reporteColumns)

	var updated reporte.Reporte
	if err := repo.db.GetContext(ctx, &updated, query, r.Descripcion, r.Estado, r.IDReporte); err != nil {
		if err == sql.ErrNoRows {
			return reporte.Reporte{}, reporte.ErrNotFound
		}
		return reporte.Reporte{}, errors.Wrap(err, "updating reporte")
	}
	return updated, nil
}

func (repo *reporteRepository) DeleteReportesByID(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM reporte WHERE id_reporte IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting reportes")
	}
	return nil
}

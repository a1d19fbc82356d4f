package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/yavirac/inventario/core/asignacion"
)

const asignacionColumns = "id_asignacion, id_aula, id_usuario, fecha_asignacion, estado"

type asignacionRepository struct {
	db *sqlx.DB
}

func NewAsignacionRepository(db *sqlx.DB) asignacion.Repository {
	return &asignacionRepository{db: db}
}

func (repo *asignacionRepository) CreateAsignacion(ctx context.Context, a asignacion.Asignacion) (asignacion.Asignacion, error) {
	query := `
INSERT INTO asignacion (id_aula, id_usuario, fecha_asignacion, estado)
VALUES ($1, $2, $3, $4)
RETURNING id_asignacion`
	err := repo.db.GetContext(ctx, &a.IDAsignacion, query, a.IDAula, a.IDUsuario, a.FechaAsignacion, a.Estado)
	if err != nil {
		return asignacion.Asignacion{}, errors.Wrap(err, "creating asignación")
	}
	return a, nil
}

func (repo *asignacionRepository) QueryAllAsignaciones(ctx context.Context) ([]asignacion.Asignacion, error) {
	asgs := make([]asignacion.Asignacion, 0)
	query := fmt.Sprintf(`SELECT %s FROM asignacion ORDER BY id_asignacion`, asignacionColumns)
	if err := repo.db.SelectContext(ctx, &asgs, query); err != nil {
		return nil, errors.Wrap(err, "querying asignaciones")
	}
	return asgs, nil
}

func (repo *asignacionRepository) GetAsignacionByID(ctx context.Context, id int) (asignacion.Asignacion, error) {
	var a asignacion.Asignacion
	query := fmt.Sprintf(`SELECT %s FROM asignacion WHERE id_asignacion = $1`, asignacionColumns)
	if err := repo.db.GetContext(ctx, &a, query, id); err != nil {
		if err == sql.ErrNoRows {
			return asignacion.Asignacion{}, asignacion.ErrNotFound
		}
		return asignacion.Asignacion{}, errors.Wrap(err, "getting asignación by id")
	}
	return a, nil
}

func (repo *asignacionRepository) GetActiveAsignacionByAula(ctx context.Context, idAula int) (asignacion.Asignacion, error) {
	var a asignacion.Asignacion
	query := fmt.Sprintf(`SELECT %s FROM asignacion WHERE id_aula = $1 AND estado LIMIT 1`, asignacionColumns)
	if err := repo.db.GetContext(ctx, &a, query, idAula); err != nil {
		if err == sql.ErrNoRows {
			return asignacion.Asignacion{}, asignacion.ErrNotFound
		}
		return asignacion.Asignacion{}, errors.Wrap(err, "getting active asignación by aula")
	}
	return a, nil
}

func (repo *asignacionRepository) QueryAsignacionesByUsuario(ctx context.Context, idUsuario int) ([]asignacion.Asignacion, error) {
	asgs := make([]asignacion.Asignacion, 0)
	query := fmt.Sprintf(`SELECT %s FROM asignacion WHERE id_usuario = $1 ORDER BY id_asignacion`, asignacionColumns)
	if err := repo.db.SelectContext(ctx, &asgs, query, idUsuario); err != nil {
		return nil, errors.Wrap(err, "querying asignaciones by usuario")
	}
	return asgs, nil
}

func (repo *asignacionRepository) UpdateAsignacion(ctx context.Context, a asignacion.Asignacion, estado *bool) (asignacion.Asignacion, error) {
	query := `UPDATE asignacion SET id_aula = $1, id_usuario = $2`
	args := []interface{}{a.IDAula, a.IDUsuario}
	i := 3

	if estado != nil {
		query += fmt.Sprintf(`, estado = $%d`, i)
		args = append(args, *estado)
		i++
	}
	query += fmt.Sprintf(` WHERE id_asignacion = $%d RETURNING %s`, i, asignacionColumns)
	args = append(args, a.IDAsignacion)

	var updated asignacion.Asignacion
	if err := repo.db.GetContext(ctx, &updated, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return asignacion.Asignacion{}, asignacion.ErrNotFound
		}
		return asignacion.Asignacion{}, errors.Wrap(err, "updating asignación")
	}
	return updated, nil
}

func (repo *asignacionRepository) DeleteAsignacionesByID(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM asignacion WHERE id_asignacion IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting asignaciones")
	}
	return nil
}

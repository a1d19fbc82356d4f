package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/yavirac/inventario/core/aula"
)

const aulaColumns = "id_aula, nombre, ubicacion, capacidad, estado"

type aulaRepository struct {
	db *sqlx.DB
}

func NewAulaRepository(db *sqlx.DB) aula.Repository {
	return &aulaRepository{db: db}
}

func (repo *aulaRepository) CreateAula(ctx context.Context, a aula.Aula) (aula.Aula, error) {
	query := `
INSERT INTO aula (nombre, ubicacion, capacidad, estado)
VALUES ($1, $2, $3, $4)
RETURNING id_aula`
	err := repo.db.GetContext(ctx, &a.IDAula, query, a.Nombre, a.Ubicacion, a.Capacidad, a.Estado)
	if err != nil {
		return aula.Aula{}, errors.Wrap(err, "creating aula")
	}
	return a, nil
}

func (repo *aulaRepository) QueryAllAulas(ctx context.Context) ([]aula.Aula, error) {
	aulas := make([]aula.Aula, 0)
	query := fmt.Sprintf(`SELECT %s FROM aula ORDER BY id_aula`, aulaColumns)
	if err := repo.db.SelectContext(ctx, &aulas, query); err != nil {
		return nil, errors.Wrap(err, "querying aulas")
	}
	return aulas, nil
}

func (repo *aulaRepository) GetAulaByID(ctx context.Context, id int) (aula.Aula, error) {
	var a aula.Aula
	query := fmt.Sprintf(`SELECT %s FROM aula WHERE id_aula = $1`, aulaColumns)
	if err := repo.db.GetContext(ctx, &a, query, id); err != nil {
		if err == sql.ErrNoRows {
			return aula.Aula{}, aula.ErrNotFound
		}
		return aula.Aula{}, errors.Wrap(err, "getting aula by id")
	}
	return a, nil
}

func (repo *aulaRepository) UpdateAula(ctx context.Context, a aula.Aula, estado *bool) (aula.Aula, error) {
	query := `UPDATE aula SET nombre = $1, ubicacion = $2, capacidad = $3`
	args := []interface{}{a.Nombre, a.Ubicacion, a.Capacidad}
	i := 4

	if estado != nil {
		query += fmt.Sprintf(`, estado = $%d`, i)
		args = append(args, *estado)
		i++
	}
	query += fmt.Sprintf(` WHERE id_aula = $%d RETURNING %s`, i, aulaColumns)
	args = append(args, a.IDAula)

	var updated aula.Aula
	if err := repo.db.GetContext(ctx, &updated, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return aula.Aula{}, aula.ErrNotFound
		}
		return aula.Aula{}, errors.Wrap(err, "updating aula")
	}
	return updated, nil
}

func (repo *aulaRepository) DeleteAulasByID(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM aula WHERE id_aula IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting aulas")
	}
	return nil
}

package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/yavirac/inventario/core/bien"
)

const bienColumns = "id_bien, codigo, nombre, descripcion, id_categoria, id_aula, estado"

type bienRepository struct {
	db *sqlx.DB
}

func NewBienRepository(db *sqlx.DB) bien.Repository {
	return &bienRepository{db: db}
}

func (repo *bienRepository) CreateBien(ctx context.Context, b bien.Bien) (bien.Bien, error) {
	query := `
INSERT INTO bien (codigo, nombre, descripcion, id_categoria, id_aula, estado)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id_bien`
	err := repo.db.GetContext(ctx, &b.IDBien, query,
		b.Codigo, b.Nombre, b.Descripcion, b.IDCategoria, b.IDAula, b.Estado)
	if err != nil {
		return bien.Bien{}, errors.Wrap(err, "creating bien")
	}
	return b, nil
}

func (repo *bienRepository) QueryAllBienes(ctx context.Context) ([]bien.Bien, error) {
	bienes := make([]bien.Bien, 0)
	query := fmt.Sprintf(`SELECT %s FROM bien ORDER BY id_bien`, bienColumns)
	if err := repo.db.SelectContext(ctx, &bienes, query); err != nil {
		return nil, errors.Wrap(err, "querying bienes")
	}
	return bienes, nil
}

func (repo *bienRepository) GetBienByID(ctx context.Context, id int) (bien.Bien, error) {
	var b bien.Bien
	query := fmt.Sprintf(`SELECT %s FROM bien WHERE id_bien = $1`, bienColumns)
	if err := repo.db.GetContext(ctx, &b, query, id); err != nil {
		if err == sql.ErrNoRows {
			return bien.Bien{}, bien.ErrNotFound
		}
		return bien.Bien{}, errors.Wrap(err, "getting bien by id")
	}
	return b, nil
}

func (repo *bienRepository) GetBienByCodigo(ctx context.Context, codigo string) (bien.Bien, error) {
	var b bien.Bien
	query := fmt.Sprintf(`SELECT %s FROM bien WHERE codigo = $1`, bienColumns)
	if err := repo.db.GetContext(ctx, &b, query, codigo); err != nil {
		if err == sql.ErrNoRows {
			return bien.Bien{}, bien.ErrNotFound
		}
		return bien.Bien{}, errors.Wrap(err, "getting bien by codigo")
	}
	return b, nil
}

func (repo *bienRepository) FilterBienes(ctx context.Context, filter bien.QueryFilter) ([]bien.Bien, error) {
	query := fmt.Sprintf(`SELECT %s FROM bien WHERE 1=1`, bienColumns)
	var args []interface{}
	i := 1

	if filter.Search != "" {
		query += fmt.Sprintf(` AND (codigo ILIKE $%d OR nombre ILIKE $%d OR descripcion ILIKE $%d)`, i, i, i)
		args = append(args, "%"+filter.Search+"%")
		i++
	}
	if filter.IDAula != 0 {
		query += fmt.Sprintf(` AND id_aula = $%d`, i)
		args = append(args, filter.IDAula)
		i++
	}
	if filter.IDCategoria != 0 {
		query += fmt.Sprintf(` AND id_categoria = $%d`, i)
		args = append(args, filter.IDCategoria)
		i++
	}
	if filter.Estado != "" {
		query += fmt.Sprintf(` AND estado = $%d`, i)
		args = append(args, filter.Estado)
		i++
	}
	query += ` ORDER BY id_bien`

	bienes := make([]bien.Bien, 0)
	if err := repo.db.SelectContext(ctx, &bienes, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering bienes")
	}
	return bienes, nil
}

func (repo *bienRepository) UpdateBien(ctx context.Context, b bien.Bien) (bien.Bien, error) {
	query := fmt.Sprintf(`
UPDATE bien
SET nombre = $1, descripcion = $2, id_categoria = $3, id_aula = $4, estado = $5
WHERE id_bien = $6
RETURNING %s`, bienColumns)

	var updated bien.Bien
	err := repo.db.GetContext(ctx, &updated, query,
		b.Nombre, b.Descripcion, b.IDCategoria, b.IDAula, b.Estado, b.IDBien)
	if err != nil {
		if err == sql.ErrNoRows {
			return bien.Bien{}, bien.ErrNotFound
		}
		return bien.Bien{}, errors.Wrap(err, "updating bien")
	}
	return updated, nil
}

func (repo *bienRepository) DeleteBienesByID(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM bien WHERE id_bien IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting bienes")
	}
	return nil
}

package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/yavirac/inventario/core/usuario"
)

const usuarioColumns = "id_usuario, nombre, cedula, email, password_hash, estado, fecha_registro, id_rol"

type usuarioRepository struct {
	db *sqlx.DB
}

func NewUsuarioRepository(db *sqlx.DB) usuario.Repository {
	return &usuarioRepository{db: db}
}

func (repo *usuarioRepository) CheckUniqueness(ctx context.Context, email, cedula string, excluded ...usuario.Usuario) error {
	query := `SELECT email, cedula FROM usuario WHERE (email = ? OR (cedula <> '' AND cedula = ?))`
	args := []interface{}{email, cedula}

	if len(excluded) > 0 {
		ids := make([]int, 0, len(excluded))
		for _, usr := range excluded {
			ids = append(ids, usr.IDUsuario)
		}
		var err error
		query, args, err = sqlx.In(query+` AND id_usuario NOT IN (?)`, email, cedula, ids)
		if err != nil {
			return errors.Wrap(err, "building uniqueness query")
		}
	}

	var rows []struct {
		Email  string `db:"email"`
		Cedula string `db:"cedula"`
	}
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking usuario uniqueness")
	}
	for _, row := range rows {
		if row.Email == email {
			return usuario.ErrEmailExists
		}
		if cedula != "" && row.Cedula == cedula {
			return usuario.ErrCedulaExists
		}
	}
	return nil
}

func (repo *usuarioRepository) CreateUsuario(ctx context.Context, usr usuario.Usuario) (usuario.Usuario, error) {
	query := `
INSERT INTO usuario (nombre, cedula, email, password_hash, estado, fecha_registro, id_rol)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id_usuario`
	err := repo.db.GetContext(ctx, &usr.IDUsuario, query,
		usr.Nombre, usr.Cedula, usr.Email, usr.PasswordHash, usr.Estado, usr.FechaRegistro, usr.IDRol)
	if err != nil {
		return usuario.Usuario{}, errors.Wrap(err, "creating usuario")
	}
	return usr, nil
}

func (repo *usuarioRepository) QueryAllUsuarios(ctx context.Context) ([]usuario.Usuario, error) {
	usrs := make([]usuario.Usuario, 0)
	query := fmt.Sprintf(`SELECT %s FROM usuario ORDER BY id_usuario`, usuarioColumns)
	if err := repo.db.SelectContext(ctx, &usrs, query); err != nil {
		return nil, errors.Wrap(err, "querying usuarios")
	}
	return usrs, nil
}

func (repo *usuarioRepository) GetUsuarioByID(ctx context.Context, id int) (usuario.Usuario, error) {
	var usr usuario.Usuario
	query := fmt.Sprintf(`SELECT %s FROM usuario WHERE id_usuario = $1`, usuarioColumns)
	if err := repo.db.GetContext(ctx, &usr, query, id); err != nil {
		if err == sql.ErrNoRows {
			return usuario.Usuario{}, usuario.ErrNotFound
		}
		return usuario.Usuario{}, errors.Wrap(err, "getting usuario by id")
	}
	return usr, nil
}

func (repo *usuarioRepository) GetUsuarioByEmail(ctx context.Context, email string) (usuario.Usuario, error) {
	var usr usuario.Usuario
	query := fmt.Sprintf(`SELECT %s FROM usuario WHERE email = $1`, usuarioColumns)
	if err := repo.db.GetContext(ctx, &usr, query, email); err != nil {
		if err == sql.ErrNoRows {
			return usuario.Usuario{}, usuario.ErrNotFound
		}
		return usuario.Usuario{}, errors.Wrap(err, "getting usuario by email")
	}
	return usr, nil
}

func (repo *usuarioRepository) FilterUsuarios(ctx context.Context, filter usuario.QueryFilter) ([]usuario.Usuario, error) {
	query := fmt.Sprintf(`SELECT %s FROM usuario WHERE 1=1`, usuarioColumns)
	var args []interface{}
	i := 1

	if filter.Search != "" {
		query += fmt.Sprintf(` AND (nombre ILIKE $%d OR cedula ILIKE $%d OR email ILIKE $%d)`, i, i, i)
		args = append(args, "%"+filter.Search+"%")
		i++
	}
	if filter.IDRol != 0 {
		query += fmt.Sprintf(` AND id_rol = $%d`, i)
		args = append(args, filter.IDRol)
		i++
	}
	if filter.Estado != nil {
		query += fmt.Sprintf(` AND estado = $%d`, i)
		args = append(args, *filter.Estado)
		i++
	}
	query += ` ORDER BY id_usuario`

	usrs := make([]usuario.Usuario, 0)
	if err := repo.db.SelectContext(ctx, &usrs, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering usuarios")
	}
	return usrs, nil
}

func (repo *usuarioRepository) UpdateUsuario(ctx context.Context, usr usuario.Usuario, estado *bool) (usuario.Usuario, error) {
	query := `UPDATE usuario SET nombre = $1, cedula = $2, email = $3, id_rol = $4`
	args := []interface{}{usr.Nombre, usr.Cedula, usr.Email, usr.IDRol}
	i := 5

	if len(usr.PasswordHash) > 0 {
		query += fmt.Sprintf(`, password_hash = $%d`, i)
		args = append(args, usr.PasswordHash)
		i++
	}
	if estado != nil {
		query += fmt.Sprintf(`, estado = $%d`, i)
		args = append(args, *estado)
		i++
	}
	query += fmt.Sprintf(` WHERE id_usuario = $%d RETURNING %s`, i, usuarioColumns)
	args = append(args, usr.IDUsuario)

	var updated usuario.Usuario
	if err := repo.db.GetContext(ctx, &updated, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return usuario.Usuario{}, usuario.ErrNotFound
		}
		return usuario.Usuario{}, errors.Wrap(err, "updating usuario")
	}
	return updated, nil
}

func (repo *usuarioRepository) DeleteUsuariosByID(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM usuario WHERE id_usuario IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting usuarios")
	}
	return nil
}

package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/yavirac/inventario/core/usuario"
)

type usuarioRepository struct {
	db *usuarioTable
}

func NewUsuarioRepository(db *DB) usuario.Repository {
	return &usuarioRepository{db: db.usuario}
}

func (repo *usuarioRepository) query() []usuario.Usuario {
	usrs := make([]usuario.Usuario, 0, len(repo.db.table))
	for _, u := range repo.db.table {
		usrs = append(usrs, *u)
	}
	sort.Slice(usrs, func(i, j int) bool { return usrs[i].IDUsuario < usrs[j].IDUsuario })
	return usrs
}

func isExcluded(usr usuario.Usuario, excluded []usuario.Usuario) bool {
	for _, ex := range excluded {
		if usr.IDUsuario == ex.IDUsuario {
			return true
		}
	}
	return false
}

func (repo *usuarioRepository) CheckUniqueness(_ context.Context, email, cedula string, excluded ...usuario.Usuario) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.query() {
		if isExcluded(usr, excluded) {
			continue
		}
		if usr.Email == email {
			return usuario.ErrEmailExists
		}
		if cedula != "" && usr.Cedula == cedula {
			return usuario.ErrCedulaExists
		}
	}
	return nil
}

func (repo *usuarioRepository) CreateUsuario(_ context.Context, usr usuario.Usuario) (usuario.Usuario, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pkCount++
	usr.IDUsuario = repo.db.pkCount
	repo.db.table[usr.IDUsuario] = &usr
	return usr, nil
}

func (repo *usuarioRepository) QueryAllUsuarios(_ context.Context) ([]usuario.Usuario, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *usuarioRepository) GetUsuarioByID(_ context.Context, id int) (usuario.Usuario, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		return *usr, nil
	}
	return usuario.Usuario{}, usuario.ErrNotFound
}

func (repo *usuarioRepository) GetUsuarioByEmail(_ context.Context, email string) (usuario.Usuario, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.db.table {
		if usr.Email == email {
			return *usr, nil
		}
	}
	return usuario.Usuario{}, usuario.ErrNotFound
}

func (repo *usuarioRepository) FilterUsuarios(_ context.Context, filter usuario.QueryFilter) ([]usuario.Usuario, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	search := strings.ToLower(filter.Search)
	usrs := make([]usuario.Usuario, 0)
	for _, usr := range repo.query() {
		if search != "" &&
			!strings.Contains(strings.ToLower(usr.Nombre), search) &&
			!strings.Contains(strings.ToLower(usr.Cedula), search) &&
			!strings.Contains(strings.ToLower(usr.Email), search) {
			continue
		}
		if filter.IDRol != 0 && usr.IDRol != filter.IDRol {
			continue
		}
		if filter.Estado != nil && usr.Estado != *filter.Estado {
			continue
		}
		usrs = append(usrs, usr)
	}
	return usrs, nil
}

func (repo *usuarioRepository) UpdateUsuario(_ context.Context, usr usuario.Usuario, estado *bool) (usuario.Usuario, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[usr.IDUsuario]
	if !ok {
		return usuario.Usuario{}, usuario.ErrNotFound
	}

	orig.Nombre = usr.Nombre
	orig.Cedula = usr.Cedula
	orig.Email = usr.Email
	orig.IDRol = usr.IDRol
	if len(usr.PasswordHash) > 0 {
		orig.PasswordHash = usr.PasswordHash
	}
	if estado != nil {
		orig.Estado = *estado
	}
	return *orig, nil
}

func (repo *usuarioRepository) DeleteUsuariosByID(_ context.Context, ids ...int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

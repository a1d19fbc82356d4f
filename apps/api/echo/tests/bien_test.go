package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yavirac/inventario/core/aula"
	"github.com/yavirac/inventario/core/bien"
	"github.com/yavirac/inventario/core/usuario"
	testutil "github.com/yavirac/inventario/tests"
)

func createBien(t *testing.T, nombre string, idCategoria, idAula int) bien.Bien {
	t.Helper()
	b, err := bienSvc.Create(context.Background(), bien.NewBien{
		Nombre:      nombre,
		IDCategoria: idCategoria,
		IDAula:      idAula,
	})
	require.NoError(t, err)
	return b
}

func Test_bienApi_crud(t *testing.T) {
	app := setup(t)

	coord := testutil.CreateUsuario(t, usrRepo, "Coordinadora", "1723456789", "coord@yavirac.edu.ec", "pwd", usuario.RoleCoordinador, true)
	docente := testutil.CreateUsuario(t, usrRepo, "Docente", "1734567890", "docente@yavirac.edu.ec", "pwd", usuario.RoleDocente, true)
	coordToken := getToken(t, coord)

	a, err := aulaSvc.Create(context.Background(), aula.NewAula{Nombre: "Aula 101", Ubicacion: "Bloque A", Capacidad: 30})
	require.NoError(t, err)

	t.Run("docente forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/bienes", getToken(t, docente))
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})}
		checkCodeAndData(t, tt, rec)
	})

	var created bien.Bien
	t.Run("create mints a código and starts DISPONIBLE", func(t *testing.T) {
		body := []byte(fmt.Sprintf(`{"nombre": "Proyector Epson", "descripcion": "HD", "idCategoria": 3, "idAula": %d}`, a.IDAula))
		req, rec := newAuthRequest(http.MethodPost, "/api/bienes", coordToken, body)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Regexp(t, `^YAV-[0-9A-F]{8}$`, created.Codigo)
		assert.Equal(t, bien.EstadoDisponible, created.Estado)
		assert.Equal(t, a.IDAula, created.IDAula)
	})

	t.Run("retrieve by código", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/bienes/codigo/"+created.Codigo, coordToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, created)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("unknown categoría rejected", func(t *testing.T) {
		body := []byte(`{"nombre": "Cosa", "idCategoria": 42}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/bienes", coordToken, body)
		app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"idCategoria": "unknown categoría id"}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("update estado keeps código", func(t *testing.T) {
		body := []byte(`{"estado": "DANADO"}`)
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/api/bienes/%d", created.IDBien), coordToken, body)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var updated bien.Bien
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, created.Codigo, updated.Codigo)
		assert.Equal(t, bien.EstadoDanado, updated.Estado)
		assert.Equal(t, created.Nombre, updated.Nombre)
	})

	t.Run("categorías", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/bienes/categorias", coordToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, bien.Categorias)}
		checkCodeAndData(t, tt, rec)
	})
}

func Test_bienApi_filter(t *testing.T) {
	app := setup(t)

	coord := testutil.CreateUsuario(t, usrRepo, "Coordinadora", "1723456789", "coord@yavirac.edu.ec", "pwd", usuario.RoleCoordinador, true)
	coordToken := getToken(t, coord)

	proyector := createBien(t, "Proyector", 3, 1)
	mesa := createBien(t, "Mesa", 1, 1)
	laptop := createBien(t, "Laptop", 2, 2)

	tests := []httpTest{
		{name: "all", path: "/api/bienes", wantData: marchallList(t, proyector, mesa, laptop)},
		{name: "by aula", path: "/api/bienes?idAula=1", wantData: marchallList(t, proyector, mesa)},
		{name: "by categoría", path: "/api/bienes?idCategoria=2", wantData: marchallList(t, laptop)},
		{name: "search", path: "/api/bienes?search=proyec", wantData: marchallList(t, proyector)},
		{name: "search (unknown)", path: "/api/bienes?search=nada", wantData: marchallList(t)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.token = coordToken
		tt.wantCode = http.StatusOK

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

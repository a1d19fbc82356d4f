package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yavirac/inventario/core/asignacion"
	"github.com/yavirac/inventario/core/aula"
	"github.com/yavirac/inventario/core/usuario"
	testutil "github.com/yavirac/inventario/tests"
)

func Test_asignacionApi(t *testing.T) {
	app := setup(t)

	coord := testutil.CreateUsuario(t, usrRepo, "Coordinadora", "1723456789", "coord@yavirac.edu.ec", "pwd", usuario.RoleCoordinador, true)
	docente := testutil.CreateUsuario(t, usrRepo, "Docente", "1734567890", "docente@yavirac.edu.ec", "pwd", usuario.RoleDocente, true)
	otro := testutil.CreateUsuario(t, usrRepo, "Otro Docente", "1745678901", "otro@yavirac.edu.ec", "pwd", usuario.RoleDocente, true)
	coordToken := getToken(t, coord)
	docenteToken := getToken(t, docente)

	ctx := context.Background()
	a101, err := aulaSvc.Create(ctx, aula.NewAula{Nombre: "Aula 101", Ubicacion: "Bloque A", Capacidad: 30})
	require.NoError(t, err)
	a102, err := aulaSvc.Create(ctx, aula.NewAula{Nombre: "Aula 102", Ubicacion: "Bloque A", Capacidad: 25})
	require.NoError(t, err)

	var asig asignacion.Asignacion
	t.Run("coordinador assigns an aula", func(t *testing.T) {
		body := []byte(fmt.Sprintf(`{"idAula": %d, "idUsuario": %d}`, a101.IDAula, docente.IDUsuario))
		req, rec := newAuthRequest(http.MethodPost, "/api/asignaciones", coordToken, body)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &asig))
		assert.True(t, asig.Estado)
		assert.False(t, asig.FechaAsignacion.IsZero())
	})

	t.Run("an aula holds at most one active asignación", func(t *testing.T) {
		body := []byte(fmt.Sprintf(`{"idAula": %d, "idUsuario": %d}`, a101.IDAula, otro.IDUsuario))
		req, rec := newAuthRequest(http.MethodPost, "/api/asignaciones", coordToken, body)
		app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"idAula": "the aula already has an active asignación"}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("docente cannot manage asignaciones", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/asignaciones", docenteToken)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("docente reads their own aula", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/api/asignaciones/usuario/%d", docente.IDUsuario), docenteToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallList(t, asig)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("released aula can be reassigned", func(t *testing.T) {
		body := []byte(fmt.Sprintf(`{"idAula": %d, "idUsuario": %d, "estado": false}`, a101.IDAula, docente.IDUsuario))
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/api/asignaciones/%d", asig.IDAsignacion), coordToken, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body = []byte(fmt.Sprintf(`{"idAula": %d, "idUsuario": %d}`, a101.IDAula, otro.IDUsuario))
		req, rec = newAuthRequest(http.MethodPost, "/api/asignaciones", coordToken, body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("a free aula assigns normally", func(t *testing.T) {
		body := []byte(fmt.Sprintf(`{"idAula": %d, "idUsuario": %d}`, a102.IDAula, docente.IDUsuario))
		req, rec := newAuthRequest(http.MethodPost, "/api/asignaciones", coordToken, body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})
}

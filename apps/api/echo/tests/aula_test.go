package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yavirac/inventario/core/aula"
	"github.com/yavirac/inventario/core/usuario"
	testutil "github.com/yavirac/inventario/tests"
)

func Test_aulaApi(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUsuario(t, usrRepo, "Admin", "1712345678", "admin@yavirac.edu.ec", "pwd", usuario.RoleAdmin, true)
	adminToken := getToken(t, admin)

	var created aula.Aula
	t.Run("create", func(t *testing.T) {
		body := []byte(`{"nombre": "Aula 101", "ubicacion": "Bloque A", "capacidad": 30}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/aulas", adminToken, body)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.True(t, created.Estado)
		assert.Equal(t, 30, created.Capacidad)
	})

	t.Run("query", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/aulas", adminToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallList(t, created)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("update keeps capacidad when omitted", func(t *testing.T) {
		body := []byte(`{"ubicacion": "Bloque B"}`)
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/api/aulas/%d", created.IDAula), adminToken, body)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var updated aula.Aula
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, "Bloque B", updated.Ubicacion)
		assert.Equal(t, created.Nombre, updated.Nombre)
		assert.Equal(t, created.Capacidad, updated.Capacidad)
	})

	t.Run("delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, fmt.Sprintf("/api/aulas/%d", created.IDAula), adminToken)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)

		req, rec = newAuthRequest(http.MethodGet, fmt.Sprintf("/api/aulas/%d", created.IDAula), adminToken)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yavirac/inventario/core/reporte"
	"github.com/yavirac/inventario/core/usuario"
	testutil "github.com/yavirac/inventario/tests"
)

func Test_reporteApi(t *testing.T) {
	app := setup(t)

	coord := testutil.CreateUsuario(t, usrRepo, "Coordinadora", "1723456789", "coord@yavirac.edu.ec", "pwd", usuario.RoleCoordinador, true)
	docente := testutil.CreateUsuario(t, usrRepo, "Docente", "1734567890", "docente@yavirac.edu.ec", "pwd", usuario.RoleDocente, true)
	coordToken := getToken(t, coord)
	docenteToken := getToken(t, docente)

	var rep reporte.Reporte
	t.Run("docente files a reporte", func(t *testing.T) {
		body := []byte(fmt.Sprintf(`{"idUsuario": %d, "idBien": 1, "descripcion": "Pantalla rota"}`, docente.IDUsuario))
		req, rec := newAuthRequest(http.MethodPost, "/api/reportes", docenteToken, body)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
		assert.Equal(t, reporte.EstadoAbierto, rep.Estado)
	})

	t.Run("coordinador cannot file a reporte", func(t *testing.T) {
		body := []byte(fmt.Sprintf(`{"idUsuario": %d, "idBien": 1, "descripcion": "Proyector sin señal"}`, coord.IDUsuario))
		req, rec := newAuthRequest(http.MethodPost, "/api/reportes", coordToken, body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	})

	t.Run("docente cannot list all reportes", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/reportes", docenteToken)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("docente reads their own reportes", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/api/reportes/usuario/%d", docente.IDUsuario), docenteToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallList(t, rep)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("estado progresses through the workflow", func(t *testing.T) {
		body := []byte(`{"estado": "EN_PROCESO"}`)
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/api/reportes/%d", rep.IDReporte), coordToken, body)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var updated reporte.Reporte
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, reporte.EstadoEnProceso, updated.Estado)
		assert.Equal(t, rep.Descripcion, updated.Descripcion)
	})

	t.Run("unknown estado rejected", func(t *testing.T) {
		body := []byte(`{"estado": "CERRADO"}`)
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/api/reportes/%d", rep.IDReporte), coordToken, body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	})
}

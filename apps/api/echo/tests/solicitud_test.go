package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yavirac/inventario/core/solicitud"
	"github.com/yavirac/inventario/core/usuario"
	testutil "github.com/yavirac/inventario/tests"
)

func Test_solicitudApi_lifecycle(t *testing.T) {
	app := setup(t)

	coord := testutil.CreateUsuario(t, usrRepo, "Coordinadora", "1723456789", "coord@yavirac.edu.ec", "pwd", usuario.RoleCoordinador, true)
	docente := testutil.CreateUsuario(t, usrRepo, "Docente", "1734567890", "docente@yavirac.edu.ec", "pwd", usuario.RoleDocente, true)
	coordToken := getToken(t, coord)
	docenteToken := getToken(t, docente)

	var sol solicitud.Solicitud
	t.Run("docente files a solicitud from the portal", func(t *testing.T) {
		body := []byte(fmt.Sprintf(`{"idDocente": %d, "idBien": 1, "motivo": "Proyector dañado"}`, docente.IDUsuario))
		req, rec := newAuthRequest(http.MethodPost, "/api/solicitudes", docenteToken, body)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sol))
		assert.Equal(t, solicitud.EstadoPendiente, sol.Estado)
	})

	t.Run("docente follows their own solicitudes", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/api/solicitudes/docente/%d", docente.IDUsuario), docenteToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallList(t, sol)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("docente cannot list all solicitudes", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/solicitudes", docenteToken)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("aprobar settles the solicitud and notifies the docente", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/api/solicitudes/%d/aprobar", sol.IDSolicitud), coordToken)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var settled solicitud.Solicitud
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settled))
		assert.Equal(t, solicitud.EstadoAprobada, settled.Estado)

		require.Equal(t, 1, mailSvc.SentCount())
		sent := mailSvc.Sent[0]
		assert.Equal(t, docente.Email, sent.To[0].Address)
		assert.Contains(t, sent.Subject, "aprobada")
	})

	t.Run("a settled solicitud cannot be decided again", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/api/solicitudes/%d/denegar", sol.IDSolicitud), coordToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "the solicitud has already been decided"}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("a settled solicitud cannot be edited", func(t *testing.T) {
		body := []byte(`{"motivo": "otro motivo"}`)
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/api/solicitudes/%d", sol.IDSolicitud), coordToken, body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	})

	t.Run("deciding an unknown solicitud", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/solicitudes/999/aprobar", coordToken)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/yavirac/inventario/apps/api/echo"
	"github.com/yavirac/inventario/core/usuario"
	testutil "github.com/yavirac/inventario/tests"
)

func Test_authApi_login(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUsuario(t, usrRepo, "Admin", "1712345678", "admin@yavirac.edu.ec", "p@zzw0rd", usuario.RoleAdmin, true)
	testutil.CreateUsuario(t, usrRepo, "Naughty", "1798765432", "naughty@yavirac.edu.ec", "p@zzw0rd", usuario.RoleDocente, false)

	t.Run("valid credentials open a session", func(t *testing.T) {
		body := []byte(`{"email": "admin@yavirac.edu.ec", "password": "p@zzw0rd"}`)
		req, rec := newRequest(http.MethodPost, "/api/auth/login", body)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp echoapi.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, admin.IDUsuario, resp.Usuario.IDUsuario)
		assert.Equal(t, usuario.RoleAdmin, resp.Usuario.IDRol)

		// the session window is now open for this profile
		req, rec = newAuthRequest(http.MethodGet, "/api/auth/session", resp.Token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var status echoapi.SessionStatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.InDelta(t, 1800, status.RemainingSeconds, 5)
		assert.False(t, status.ShowWarning)
	})

	tests := []httpTest{
		{
			name: "wrong password", body: []byte(`{"email": "admin@yavirac.edu.ec", "password": "nope"}`),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name: "unknown account", body: []byte(`{"email": "ghost@yavirac.edu.ec", "password": "p@zzw0rd"}`),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name: "deactivated account", body: []byte(`{"email": "naughty@yavirac.edu.ec", "password": "p@zzw0rd"}`),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "cuenta desactivada: invalid credentials"}),
		},
		{
			name: "missing email", body: []byte(`{"password": "p@zzw0rd"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"email": "this field is required"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/auth/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_authApi_logout(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUsuario(t, usrRepo, "Admin", "1712345678", "admin@yavirac.edu.ec", "p@zzw0rd", usuario.RoleAdmin, true)
	token := getToken(t, admin)

	req, rec := newAuthRequest(http.MethodPost, "/api/auth/logout", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), marchallObj(t, echoapi.SuccessResponse{Success: "sesión cerrada"}))
	require.NoError(t, err)
	assert.True(t, ok)

	// the token is still a valid JWT but the session window is gone
	req, rec = newAuthRequest(http.MethodGet, "/api/auth/session", token)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// logging out twice is fine
	req, rec = newAuthRequest(http.MethodPost, "/api/auth/logout", token)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func Test_authApi_sessionStatus(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUsuario(t, usrRepo, "Admin", "1712345678", "admin@yavirac.edu.ec", "p@zzw0rd", usuario.RoleAdmin, true)

	t.Run("no token", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/auth/session")
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("valid token without a session window", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/auth/session", getStaleToken(t, admin))
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "session expired"})}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("open session", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/auth/session", getToken(t, admin))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var status echoapi.SessionStatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.InDelta(t, 1800, status.RemainingSeconds, 5)
		assert.False(t, status.ShowWarning)
	})
}

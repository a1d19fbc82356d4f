package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/yavirac/inventario/apps/api/echo"
	"github.com/yavirac/inventario/core"
	"github.com/yavirac/inventario/core/asignacion"
	"github.com/yavirac/inventario/core/aula"
	"github.com/yavirac/inventario/core/bien"
	"github.com/yavirac/inventario/core/reporte"
	"github.com/yavirac/inventario/core/session"
	"github.com/yavirac/inventario/core/solicitud"
	"github.com/yavirac/inventario/core/usuario"
	emailsvc "github.com/yavirac/inventario/services/email"
	inmemdb "github.com/yavirac/inventario/storage/database/inmem"
	testutil "github.com/yavirac/inventario/tests"
)

var (
	conf    *core.Config
	usrRepo usuario.Repository

	aulaSvc  aula.ServiceInterface
	bienSvc  bien.ServiceInterface
	asigSvc  asignacion.ServiceInterface
	solSvc   solicitud.ServiceInterface
	repSvc   reporte.ServiceInterface
	mailSvc  *emailsvc.ConsoleServiceMock
	registry *session.Registry

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func testConfig() *core.Config {
	return &core.Config{
		TestMode:  true,
		Env:       "TEST",
		AppName:   "InventarioYavirac",
		SecretKey: []byte("s3cr3t-t3st-k3y"),
		Server: core.ServerConfig{
			JWTExpirationDelta: 30 * time.Minute,
		},
		Session: core.SessionConfig{
			Duration:         30 * time.Minute,
			WarningThreshold: 5 * time.Minute,
		},
	}
}

func setup(t *testing.T) Server {
	t.Helper()
	conf = testConfig()

	// set up DB & repos
	db := inmemdb.NewDB()
	usrRepo = inmemdb.NewUsuarioRepository(db)
	aulaRepo := inmemdb.NewAulaRepository(db)
	bienRepo := inmemdb.NewBienRepository(db)
	asigRepo := inmemdb.NewAsignacionRepository(db)
	solRepo := inmemdb.NewSolicitudRepository(db)
	repRepo := inmemdb.NewReporteRepository(db)

	// set up validation
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	usuario.InitValidators(validate, translator)
	bien.InitValidators(validate, translator)

	// set up services
	logger := testutil.NewLogger()
	mailSvc = emailsvc.NewConsoleServiceMock(conf)
	usrSvc := usuario.NewService(usrRepo)
	aulaSvc = aula.NewService(aulaRepo)
	bienSvc = bien.NewService(bienRepo)
	asigSvc = asignacion.NewService(asigRepo)
	solSvc = solicitud.NewService(solRepo, usrSvc, mailSvc, logger)
	repSvc = reporte.NewService(repRepo)

	// set up sessions
	policy := session.DefaultPolicy()
	authenticator := NewLocalAuthenticator(usrSvc, conf)
	registry = session.NewRegistry(func(profile string) (*session.Manager, error) {
		store := session.NewMemStore()
		timer := session.NewTimer(store, logger, conf.Session)
		return session.NewManager(store, timer, nil, authenticator, policy, logger), nil
	})

	// set up server
	return NewServer(&Options{
		DisableReqLogs: true,
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		Registry:       registry,
		Authenticator:  authenticator,
		Policy:         policy,
		UsuarioSvc:     usrSvc,
		AulaSvc:        aulaSvc,
		BienSvc:        bienSvc,
		AsignacionSvc:  asigSvc,
		SolicitudSvc:   solSvc,
		ReporteSvc:     repSvc,
	})
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// getToken mints a valid JWT and opens the session window for the usuario, the
// way a successful login would.
func getToken(t *testing.T, usr usuario.Usuario) string {
	t.Helper()
	token, err := GenerateToken(conf.SecretKey, GetUsuarioClaims(conf, usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}

	ctx := context.Background()
	m, err := registry.ForUser(ctx, usr.IDUsuario)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	if err = m.AdoptSession(ctx, usr, token); err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

// getStaleToken mints a valid JWT without opening a session window.
func getStaleToken(t *testing.T, usr usuario.Usuario) string {
	t.Helper()
	token, err := GenerateToken(conf.SecretKey, GetUsuarioClaims(conf, usr))
	if err != nil {
		t.Fatalf("getStaleToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	if l1, ok := j1.([]interface{}); ok {
		if l2, ok := j2.([]interface{}); ok {
			return assert.ElementsMatch(t, l1, l2), nil
		}
	}
	return false, nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

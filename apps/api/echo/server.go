package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/yavirac/inventario/core"
	"github.com/yavirac/inventario/core/asignacion"
	"github.com/yavirac/inventario/core/aula"
	"github.com/yavirac/inventario/core/bien"
	"github.com/yavirac/inventario/core/reporte"
	"github.com/yavirac/inventario/core/session"
	"github.com/yavirac/inventario/core/solicitud"
	"github.com/yavirac/inventario/core/usuario"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		Registry      *session.Registry
		Authenticator session.Authenticator
		Policy        session.AccessPolicy

		UsuarioSvc    usuario.ServiceInterface
		AulaSvc       aula.ServiceInterface
		BienSvc       bien.ServiceInterface
		AsignacionSvc asignacion.ServiceInterface
		SolicitudSvc  solicitud.ServiceInterface
		ReporteSvc    reporte.ServiceInterface

		// SignalShutdown triggers a graceful server shutdown.
		SignalShutdown func()
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.opts.SignalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(newJWTConfig(conf.SecretKey))
	sess := sessionMiddleware(s.opts.Registry)

	registerAuthAPI(api, jwt, s.opts)
	registerUsuarioAPI(api, jwt, sess, s.opts)
	registerAulaAPI(api, jwt, sess, s.opts)
	registerBienAPI(api, jwt, sess, s.opts)
	registerAsignacionAPI(api, jwt, sess, s.opts)
	registerSolicitudAPI(api, jwt, sess, s.opts)
	registerReporteAPI(api, jwt, sess, s.opts)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Bienvenido al API de Inventario Yavirac!")
}

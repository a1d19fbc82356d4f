package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	echoapi "github.com/yavirac/inventario/apps/api/echo"
	"github.com/yavirac/inventario/core"
	"github.com/yavirac/inventario/core/asignacion"
	"github.com/yavirac/inventario/core/aula"
	"github.com/yavirac/inventario/core/bien"
	"github.com/yavirac/inventario/core/reporte"
	"github.com/yavirac/inventario/core/session"
	"github.com/yavirac/inventario/core/solicitud"
	"github.com/yavirac/inventario/core/usuario"
	directorysvc "github.com/yavirac/inventario/services/directory"
	emailsvc "github.com/yavirac/inventario/services/email"
	logsvc "github.com/yavirac/inventario/services/logger"
	"github.com/yavirac/inventario/storage/database"
	sqlxrepos "github.com/yavirac/inventario/storage/database/sqlx"
	redisstore "github.com/yavirac/inventario/storage/redis"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	// set up Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Address,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	defer func() {
		if err = rdb.Close(); err != nil {
			logger.Error("closing redis client", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	usrSvc := usuario.NewService(sqlxrepos.NewUsuarioRepository(db))
	aulaSvc := aula.NewService(sqlxrepos.NewAulaRepository(db))
	bienSvc := bien.NewService(sqlxrepos.NewBienRepository(db))
	asigSvc := asignacion.NewService(sqlxrepos.NewAsignacionRepository(db))
	solSvc := solicitud.NewService(sqlxrepos.NewSolicitudRepository(db), usrSvc, mailSvc, logger)
	repSvc := reporte.NewService(sqlxrepos.NewReporteRepository(db))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	usuario.InitValidators(validate, translator)
	bien.InitValidators(validate, translator)

	// set up sessions; either the institutional directory or our own table
	// answers logins, both feed the same normalization
	var authenticator session.Authenticator
	if conf.Directory.Enabled {
		authenticator = directorysvc.NewClient(conf, logger)
	} else {
		authenticator = echoapi.NewLocalAuthenticator(usrSvc, conf)
	}
	policy := session.DefaultPolicy()
	registry := session.NewRegistry(func(profile string) (*session.Manager, error) {
		store := redisstore.NewStore(rdb, profile, conf.Session.Duration)
		bc := redisstore.NewBroadcaster(rdb, profile, logger)
		timer := session.NewTimer(store, logger, conf.Session)
		return session.NewManager(store, timer, bc, authenticator, policy, logger), nil
	})

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(&echoapi.Options{
		Address:       conf.Server.APIAddress,
		Conf:          conf,
		Logger:        logger,
		Validate:      validate,
		Translator:    translator,
		Registry:      registry,
		Authenticator: authenticator,
		Policy:        policy,
		UsuarioSvc:    usrSvc,
		AulaSvc:       aulaSvc,
		BienSvc:       bienSvc,
		AsignacionSvc: asigSvc,
		SolicitudSvc:  solSvc,
		ReporteSvc:    repSvc,
		SignalShutdown: func() {
			shutdown <- syscall.SIGTERM
		},
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()

	if err = server.Stop(ctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

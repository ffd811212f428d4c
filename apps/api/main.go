package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/eduplaybd/eduplay/apps/api/echo"
	"github.com/eduplaybd/eduplay/core"
	"github.com/eduplaybd/eduplay/core/catalog"
	"github.com/eduplaybd/eduplay/core/content"
	"github.com/eduplaybd/eduplay/core/student"
	"github.com/eduplaybd/eduplay/core/user"
	emailsvc "github.com/eduplaybd/eduplay/services/email"
	logsvc "github.com/eduplaybd/eduplay/services/logger"
	"github.com/eduplaybd/eduplay/storage/database"
	sqlxrepos "github.com/eduplaybd/eduplay/storage/database/sqlx"
	"github.com/eduplaybd/eduplay/storage/files"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc)
	contentRepo := sqlxrepos.NewContentRepository(db)
	catalogSvc := catalog.NewService(sqlxrepos.NewCatalogRepository(db), contentRepo)
	contentSvc := content.NewService(contentRepo, catalogSvc, logger)
	studentSvc := student.NewService(sqlxrepos.NewStudentRepository(db), files.NewLocalStore(conf))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	core.InitValidators()
	user.InitValidators()

	core.ParseEmailTemplates(logger)

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

	server := echoapi.NewServer(echoapi.ServerDeps{
		Logger:     logger,
		UserSvc:    usrSvc,
		CatalogSvc: catalogSvc,
		ContentSvc: contentSvc,
		StudentSvc: studentSvc,
	})

	go server.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case <-server.ShutdownSignal():
		logger.Info("unrecoverable error: Start shutdown...")
		shutdown(server, logger, conf)

	case sig := <-sigChan:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
		shutdown(server, logger, conf)
	}
}

func shutdown(server *echoapi.Server, logger core.Logger, conf *core.Config) {
	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

		if err = server.Close(); err != nil {
			logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
		}
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

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}

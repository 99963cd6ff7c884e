package controllers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	"github.com/labstack/gommon/log"
	"github.com/radhian/ledger-engine/config"
	"github.com/radhian/ledger-engine/handler"
	"github.com/radhian/ledger-engine/infra/db"
	"github.com/radhian/ledger-engine/infra/throttle"
	"github.com/radhian/ledger-engine/middlewares"
	"github.com/radhian/ledger-engine/usecase/ledger"
)

type App struct {
	Config *config.Config
	DB     *gorm.DB
	Router *mux.Router
}

func (a *App) Initialize(cfg *config.Config) error {
	a.Config = cfg
	config.ApplyLogging(cfg.Logging)

	var err error
	a.DB, err = db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("cannot connect to database: %w", err)
	}

	if err := db.Migrate(a.DB); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	a.Router = mux.NewRouter().StrictSlash(true)
	a.initializeRoutes()
	return nil
}

func (a *App) initializeRoutes() {
	a.Router.Use(middlewares.RequestLogger)
	a.Router.Use(middlewares.SetContentTypeMiddleware)
	a.Router.Use(middlewares.RequireOwner)

	ledgerUc := ledger.NewLedgerUsecase(a.DB,
		ledger.WithThrottle(throttle.New(a.Config.Reconciliation.PerMinute, a.Config.Reconciliation.Burst)),
	)
	RegisterLedgerRoutes(a.Router, handler.NewLedgerHandler(ledgerUc))
}

func (a *App) RunServer() {
	addr := fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port)
	log.Infof("Server starting on %s", addr)
	log.Fatal(http.ListenAndServe(addr, a.Router))
}

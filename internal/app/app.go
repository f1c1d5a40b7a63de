package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/AhWirayudha/timesheet/internal/config"
	router "github.com/AhWirayudha/timesheet/internal/http"
	"github.com/AhWirayudha/timesheet/internal/service"
	"github.com/AhWirayudha/timesheet/internal/storage"
	"github.com/AhWirayudha/timesheet/pkg/postgres"
)

const (
	defaultAddr = "localhost:8080"
)

type App struct {
	httpServer *http.Server
	addr       string
	database   *postgres.Postgres
	log        *slog.Logger
}

func NewApp(cfg *config.Config, log *slog.Logger) (*App, error) {
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.DBURL == "" {
		return nil, errors.New("database url cannot be empty")
	}

	ctx := context.Background()
	database, err := postgres.New(ctx, cfg.DBURL, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	teamStorage, err := storage.NewTeamStorage(database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create team storage: %w", err)
	}
	memberStorage, err := storage.NewMemberStorage(database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create member storage: %w", err)
	}
	invitationStorage, err := storage.NewInvitationStorage(database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation storage: %w", err)
	}
	txManager, err := storage.NewTxManager(database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create tx manager: %w", err)
	}

	notifier, err := service.NewLogNotifier(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create notifier: %w", err)
	}
	teamService, err := service.NewTeamService(txManager, teamStorage, memberStorage, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create team service: %w", err)
	}
	invitationService, err := service.NewInvitationService(txManager, invitationStorage, memberStorage, teamStorage, notifier, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation service: %w", err)
	}

	mux := http.NewServeMux()
	if err := router.SetupRouter(mux, teamService, invitationService, log); err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.Timeout,
		ReadTimeout:       cfg.Timeout,
		WriteTimeout:      cfg.Timeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	return &App{
		httpServer: httpServer,
		addr:       cfg.Addr,
		database:   database,
		log:        log,
	}, nil
}

func (a *App) Run() error {
	a.log.Info("starting http server", slog.String("addr", a.addr))
	return a.httpServer.ListenAndServe()
}

func (a *App) MustRun() {
	if err := a.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.log.Error("failed to run http server", slog.Any("error", err))
		panic(err)
	}
}

func (a *App) Close(ctx context.Context) {
	a.database.Close()
	a.log.Info("trying to shutdown server")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Warn("failed to close http server", slog.Any("error", err))
	}
}

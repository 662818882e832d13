package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"SentiPull/internal/domain/repository"
	"SentiPull/internal/handler/api"
	"SentiPull/internal/usecase"
	"SentiPull/pkg/config"
	xhttp "SentiPull/pkg/http"
	applogger "SentiPull/pkg/logger"
)

// App encapsulates the application lifecycle: one pipeline run over the
// configured window, with an optional results API that keeps serving until
// interrupted.
type App struct {
	cfg        *config.Config
	pipeline   *usecase.Pipeline
	store      repository.ResultStore
	publisher  repository.Publisher
	logger     *applogger.Logger
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	pipeline *usecase.Pipeline,
	store repository.ResultStore,
	publisher repository.Publisher,
	logger *applogger.Logger,
) *App {
	return &App{
		cfg:       cfg,
		pipeline:  pipeline,
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Run executes one pipeline run. When the results server is enabled it then
// blocks serving queries until interrupted; otherwise it returns after the
// run.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// cancel the run on interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		a.logger.Info("shutdown signal received")
		cancel()
	}()

	if err := a.store.Init(ctx); err != nil {
		return err
	}

	a.logger.Info("pipeline run starting",
		applogger.Strings("symbols", a.cfg.Finnhub.Symbols),
		applogger.Duration("granularity", a.cfg.Analysis.Granularity),
	)
	runErr := a.pipeline.Run(ctx)
	if runErr != nil {
		a.logger.Error("pipeline run failed", applogger.Error(runErr))
	} else {
		a.logger.Info("pipeline run complete")
	}

	if a.cfg.Server.ServeResults && ctx.Err() == nil {
		handler := api.NewResultsHandler(a.logger, a.store)
		a.httpServer = xhttp.NewServer(handler, a.logger,
			xhttp.WithPort(a.cfg.Server.Port),
			xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		)
		if err := a.httpServer.Start(); err != nil {
			a.logger.Error("http server start error", applogger.Error(err))
			return err
		}
		<-ctx.Done()
	}

	a.shutdown()
	return runErr
}

// shutdown stops the results server and closes sinks.
func (a *App) shutdown() {
	if a.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			a.logger.Warn("http shutdown error", applogger.Error(err))
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}

	if err := a.store.Close(); err != nil {
		a.logger.Warn("store close error", applogger.Error(err))
	}

	a.logger.Info("shutdown complete")
}

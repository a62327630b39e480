package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fundhub/campaign-api/internal/api"
	"github.com/fundhub/campaign-api/internal/config"
	"github.com/fundhub/campaign-api/internal/db"
	"github.com/fundhub/campaign-api/internal/logger"
	"github.com/fundhub/campaign-api/internal/metrics"
	"github.com/fundhub/campaign-api/internal/repository"
	"github.com/fundhub/campaign-api/internal/repository/dao"
	"github.com/fundhub/campaign-api/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = dao.InitTables(postgresDB); err != nil {
		return fmt.Errorf("failed to migrate tables -> %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	stores := api.GormStores(postgresDB)
	s := api.NewServer(conf, stores, m)
	go s.Hub.Run(ctx)

	if conf.Scheduler.Enabled {
		lifecycle := worker.NewLifecycle(repository.NewCampaignRepository(stores.Campaigns), m, time.Now)
		if err = lifecycle.Start(ctx, conf.Scheduler.LifecycleInterval); err != nil {
			return fmt.Errorf("failed to start scheduler -> %w", err)
		}
		defer func() { _ = lifecycle.Shutdown() }()
	}

	srv := &http.Server{
		Addr:              ":" + conf.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown -> %w", err)
	}

	return nil
}

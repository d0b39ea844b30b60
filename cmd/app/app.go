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

	"github.com/boardy-hostel/boardy-api/internal/api"
	"github.com/boardy-hostel/boardy-api/internal/config"
	"github.com/boardy-hostel/boardy-api/internal/db"
	"github.com/boardy-hostel/boardy-api/internal/logger"
	"github.com/boardy-hostel/boardy-api/internal/repository/dao"
	"github.com/boardy-hostel/boardy-api/internal/service"
)

const (
	configPath      = "./cmd/app/config.yml"
	shutdownTimeout = 10 * time.Second
)

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer zap.L().Sync() //nolint:errcheck
	logger.SetLevel(conf.API.LogLevel)
	config.Watch(configPath, logger.SetLevel)

	postgresDB, err := openDB(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = dao.InitTables(postgresDB); err != nil {
		return fmt.Errorf("failed to migrate database -> %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if conf.Seed.OnStart {
		if err = seed(ctx, postgresDB, conf.Seed.Password); err != nil {
			return fmt.Errorf("failed to seed database -> %w", err)
		}
	}

	s := api.NewServer(conf, postgresDB)
	go s.Hub.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + s.Config.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down the server -> %w", err)
	}

	return nil
}

// openDB prefers DATABASE_URL, as set by most hosting platforms.
func openDB(conf *config.AppConfig) (*gorm.DB, error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return db.OpenPostgresWithURL(dbURL)
	}
	return db.OpenPostgres(conf.Postgres)
}

func seed(ctx context.Context, gormDB *gorm.DB, password string) error {
	hash, err := service.HashPassword(password)
	if err != nil {
		return fmt.Errorf("service.HashPassword -> %w", err)
	}

	seeded, err := dao.Seed(ctx, gormDB, hash, time.Now())
	if err != nil {
		return fmt.Errorf("dao.Seed -> %w", err)
	}
	if seeded {
		zap.L().Info("seeded demo data")
	}

	return nil
}

// migrate aplica las migraciones goose embebidas y siembra las ubicaciones por defecto
// (DEFAULT_LOCATIONS, por defecto Office,Godown,Warehouse). Es idempotente.
//
// Uso: go run ./cmd/migrate
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	if cfg.DB.Driver != config.DriverPostgres {
		return fmt.Errorf("DB_DRIVER=%s no usa migraciones", cfg.DB.Driver)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := postgres.RunMigrations(ctx, cfg.DB.ConnectionString()); err != nil {
		return err
	}
	log.Info().Msg("migraciones aplicadas")

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	created, err := usecase.NewLocationUseCase(postgres.NewLocationRepository(pool), nil).
		EnsureDefaults(ctx, cfg.DB.DefaultLocations)
	if err != nil {
		return fmt.Errorf("sembrar ubicaciones: %w", err)
	}
	log.Info().Int("created", created).Strs("locations", cfg.DB.DefaultLocations).Msg("ubicaciones por defecto")
	return nil
}

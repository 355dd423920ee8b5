// migrate aplica las migraciones SQL embebidas en internal/infrastructure/postgres/migrations.
//
// Uso: go run ./cmd/migrate
package main

import (
	"context"
	"time"

	"github.com/jhoicas/Ensamblaje-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Ensamblaje-api/pkg/config"
	"github.com/jhoicas/Ensamblaje-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Strs("applied", applied).Msg("migración fallida")
	}
	log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
}

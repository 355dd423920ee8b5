package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jhoicas/Ensamblaje-api/docs"
	"github.com/jhoicas/Ensamblaje-api/internal/application/inventory"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/repository"
	"github.com/jhoicas/Ensamblaje-api/internal/infrastructure/memory"
	"github.com/jhoicas/Ensamblaje-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Ensamblaje-api/internal/interfaces/http"
	"github.com/jhoicas/Ensamblaje-api/pkg/config"
	"github.com/jhoicas/Ensamblaje-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Int("chunk_size", cfg.Assembly.ChunkSize).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner inventory.TxRunner
		reads    repository.UnitOfWork
	)
	if cfg.App.Storage == "memory" {
		store := memory.NewStore()
		txRunner, reads = store, store.Reads()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner, reads = postgres.NewTxRunner(pool), postgres.NewRepositories(pool)
	}

	assemblySvc := inventory.NewAssemblyService(txRunner, reads,
		inventory.WithChunkRunner(inventory.NewChunkRunner(
			cfg.Assembly.ChunkSize, cfg.Assembly.ChunkBackoff, cfg.Assembly.TxTimeout,
		)),
		inventory.WithLogger(log.Named("assembly")),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ensamblaje API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Assemblies: assemblySvc,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

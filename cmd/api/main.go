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
	"github.com/swaggo/swag"

	"github.com/jhoicas/stockflow/docs"
	"github.com/jhoicas/stockflow/internal/application/inventory"
	"github.com/jhoicas/stockflow/internal/application/purchase"
	"github.com/jhoicas/stockflow/internal/application/usecase"
	"github.com/jhoicas/stockflow/internal/domain/repository"
	"github.com/jhoicas/stockflow/internal/infrastructure/memory"
	"github.com/jhoicas/stockflow/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stockflow/internal/interfaces/http"
	"github.com/jhoicas/stockflow/pkg/config"
	"github.com/jhoicas/stockflow/pkg/logger"
)

// txRunner lo cumplen postgres.TxRunner y memory.Store.
type txRunner interface {
	inventory.TxRunner
	purchase.TxRunner
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		repos repository.Repositories
		tx    txRunner
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.New()
		repos, tx = store.Repositories(), store
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.Storage.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		repos, tx = postgres.NewRepositories(pool), postgres.NewTxRunner(pool)
	}

	balance := inventory.NewBalanceService(log)
	productUC := usecase.NewProductUseCase(repos.Products, tx, balance)
	stockInUC := inventory.NewStockInUseCase(tx, repos, balance, cfg.Ledger.ReferencePrefix, log)
	stockOutUC := inventory.NewStockOutUseCase(tx, repos, balance, cfg.Ledger.ReferencePrefix, log)
	adjustmentUC := inventory.NewAdjustmentUseCase(tx, repos, balance, cfg.Ledger.ReferencePrefix, log)
	requisitionUC := purchase.NewRequisitionUseCase(tx, repos, cfg.Purchase.RequisitionPrefix, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    docs.SwaggerInfo.Title,
	}))
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return c.SendStatus(fiber.StatusNotFound)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:     productUC,
		StockInUC:     stockInUC,
		StockOutUC:    stockOutUC,
		AdjustmentUC:  adjustmentUC,
		RequisitionUC: requisitionUC,
		JWTSecret:     cfg.JWT.Secret,
		Logger:        log,
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

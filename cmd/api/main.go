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

	"github.com/AmalManoj-243/salesorderandpos/internal/application/auth"
	"github.com/AmalManoj-243/salesorderandpos/internal/application/cart"
	"github.com/AmalManoj-243/salesorderandpos/internal/application/order"
	"github.com/AmalManoj-243/salesorderandpos/internal/application/tax"
	infraodoo "github.com/AmalManoj-243/salesorderandpos/internal/infrastructure/odoo"
	infrapdf "github.com/AmalManoj-243/salesorderandpos/internal/infrastructure/pdf"
	"github.com/AmalManoj-243/salesorderandpos/internal/infrastructure/postgres"
	httpRouter "github.com/AmalManoj-243/salesorderandpos/internal/interfaces/http"
	"github.com/AmalManoj-243/salesorderandpos/pkg/config"
	"github.com/AmalManoj-243/salesorderandpos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	cartStorage := postgres.NewCartStorage(pool)
	cartStore := cart.NewStore(cartStorage, log)

	odooClient := infraodoo.NewClient(cfg.Odoo, log)
	catalog := tax.NewCatalog(odooClient, log)
	// Catálogo inicial; si el backend no responde se arranca vacío y se
	// refresca después vía GET /api/taxes?refresh=1.
	_ = catalog.Refresh(ctx)

	book := tax.NewAssignmentBook()
	workflow := order.NewWorkflow(cartStore, catalog, odooClient, cfg.POS.DefaultWarehouseID, log)

	authUC := auth.NewAuthUseCase(cfg.POS.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "Sales Order & POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		CartStore: cartStore,
		Catalog:   catalog,
		Book:      book,
		Workflow:  workflow,
		Receipt:   infrapdf.NewReceiptGenerator(),
		Display: httpRouter.DisplayConfig{
			Currency: cfg.POS.Currency,
			Decimals: int32(cfg.POS.DisplayDecimals),
		},
		JWTSecret: cfg.JWT.Secret,
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

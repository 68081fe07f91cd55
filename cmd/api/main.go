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

	"github.com/jhoicas/pos-inventario/internal/application/cart"
	"github.com/jhoicas/pos-inventario/internal/bootstrap"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/cartstore"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/pos-inventario/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-inventario/internal/interfaces/http"
	"github.com/jhoicas/pos-inventario/pkg/config"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

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
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()

	var repos bootstrap.Repos
	if cfg.App.UseMemoryStore() {
		log.Warn().Msg("APP_STORE=memory: los datos se pierden al reiniciar")
		repos = bootstrap.MemoryRepos(memory.NewStore())
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		repos = bootstrap.PostgresRepos(pool)
	}

	// Carritos: Redis si está configurado (varias instancias), si no en memoria del proceso.
	var carts cart.Store
	if cfg.Redis.Enabled() {
		rdb, err := cartstore.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		carts = cartstore.NewRedisStore(rdb, cfg.Cart.TTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("carritos en Redis")
	} else {
		carts = cartstore.NewMemoryStore(cartstore.DefaultLockWait)
	}

	svc := bootstrap.Build(repos, bootstrap.Options{
		LowStockThreshold: cfg.Inventory.LowStockThreshold,
		RecentMovements:   cfg.Inventory.RecentMovements,
		StoreName:         cfg.App.StoreName,
		Receipts:          infrapdf.NewReceiptGenerator(),
		Carts:             carts,
		Log:               log,
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
		Title:    "POS Inventario API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:   svc.Products,
		LocationUC:  svc.Locations,
		SupplierUC:  svc.Suppliers,
		StockLedger: svc.Stock,
		SaleUC:      svc.Sales,
		ReceiptUC:   svc.Receipts,
		CartUC:      svc.Cart,
		DashboardUC: svc.Dashboard,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log,
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

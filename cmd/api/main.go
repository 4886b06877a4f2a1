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

	appanalytics "github.com/jhoicas/stock-ledger-api/internal/application/analytics"
	"github.com/jhoicas/stock-ledger-api/internal/application/auth"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/cache"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-ledger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-ledger-api/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// repos puertos de persistencia según DB_DRIVER.
type repos struct {
	products     repository.ProductRepository
	locations    repository.LocationRepository
	transactions repository.TransactionRepository
	users        repository.UserRepository
	txRunner     repository.TxRunner
	close        func()
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
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	r, err := openRepos(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer r.close()

	metrics := httpRouter.NewMetrics()

	// Caché Redis opcional: sin REDIS_URL las lecturas van directo al log.
	var (
		readCache   inventory.ReadCache
		invalidator usecase.StockInvalidator
	)
	if cfg.Redis.URL != "" {
		client, err := cache.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, caché desactivada")
		} else {
			defer client.Close()
			stockCache := cache.New(client, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
			if err := stockCache.Instrument(metrics.Registerer()); err != nil {
				log.Fatal().Err(err).Msg("métricas de caché")
			}
			readCache, invalidator = stockCache, stockCache
		}
	}

	locationUC := usecase.NewLocationUseCase(r.locations, invalidator)
	// Con auto-migrate se siembran igual que en cmd/migrate.
	if cfg.DB.Driver == config.DriverMemory || cfg.DB.AutoMigrate {
		if _, err := locationUC.EnsureDefaults(ctx, cfg.DB.DefaultLocations); err != nil {
			log.Fatal().Err(err).Msg("sembrar ubicaciones")
		}
	}

	authUC := auth.NewAuthUseCase(r.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if err := authUC.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal().Err(err).Msg("crear administrador inicial")
	}

	loader := inventory.NewSnapshotLoader(r.products, r.locations, r.transactions)
	deps := httpRouter.RouterDeps{
		AuthUC:        authUC,
		ProductUC:     usecase.NewProductUseCase(r.products, invalidator),
		LocationUC:    locationUC,
		TransactionUC: usecase.NewTransactionUseCase(r.transactions, r.products, r.locations, invalidator),
		StockUC:       inventory.NewStockUseCase(loader, r.products, readCache),
		ReportUC:      inventory.NewReportUseCase(loader, infrapdf.NewMarotoReportGenerator()),
		ImportUC:      inventory.NewImportUseCase(r.txRunner, readCache),
		DashboardUC:   appanalytics.NewDashboardUseCase(loader, readCache),
		JWTSecret:     cfg.JWT.Secret,
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))
	app.Use(metrics.Middleware())

	// Swagger UI en http://localhost:<port>/docs si existe el JSON
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Stock Ledger API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", metrics.Handler())

	httpRouter.Router(app, deps)

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

// openRepos conecta PostgreSQL (con migraciones opcionales) o crea el store en memoria.
func openRepos(ctx context.Context, cfg *config.Config) (*repos, error) {
	if cfg.DB.Driver == config.DriverMemory {
		s := memory.NewStore()
		return &repos{
			products:     s.Products(),
			locations:    s.Locations(),
			transactions: s.Transactions(),
			users:        s.Users(),
			txRunner:     s.TxRunner(),
			close:        func() {},
		}, nil
	}

	if cfg.DB.AutoMigrate {
		if err := postgres.RunMigrations(ctx, cfg.DB.ConnectionString()); err != nil {
			return nil, err
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &repos{
		products:     postgres.NewProductRepository(pool),
		locations:    postgres.NewLocationRepository(pool),
		transactions: postgres.NewTransactionRepository(pool),
		users:        postgres.NewUserRepository(pool),
		txRunner:     postgres.NewTxRunner(pool),
		close:        pool.Close,
	}, nil
}

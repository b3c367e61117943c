package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/redis/go-redis/v9"

	"github.com/calzado-fabianne/almacen-api/internal/application/auth"
	"github.com/calzado-fabianne/almacen-api/internal/application/inventory"
	"github.com/calzado-fabianne/almacen-api/internal/application/usecase"
	"github.com/calzado-fabianne/almacen-api/internal/infrastructure/cache"
	"github.com/calzado-fabianne/almacen-api/internal/infrastructure/metrics"
	infrapdf "github.com/calzado-fabianne/almacen-api/internal/infrastructure/pdf"
	"github.com/calzado-fabianne/almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/calzado-fabianne/almacen-api/internal/interfaces/http"
	"github.com/calzado-fabianne/almacen-api/pkg/config"
	"github.com/calzado-fabianne/almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
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

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	// Caché de stock: opcional, sin REDIS_URL se consulta siempre la base.
	var stockCache inventory.StockCache = inventory.NoopCache{}
	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		rdb, err = cache.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		stockCache = cache.NewRedisStockCache(rdb, cfg.Redis.StockCacheTTL)
		log.Info().Dur("ttl", cfg.Redis.StockCacheTTL).Msg("caché de stock en Redis activa")
	}

	prom := metrics.NewPrometheus("almacen")

	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	variantRepo := postgres.NewStockVariantRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	engine := inventory.NewStockMovementEngine(txRunner, userRepo, supplierRepo, stockCache, prom, log.Zerolog())

	// PDF: comprobante imprimible de entradas y salidas
	voucherUC := inventory.NewVoucherPDFUseCase(
		movementRepo, productRepo, userRepo, supplierRepo,
		infrapdf.NewMarotoVoucherGenerator(cfg.App.Name),
	)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:            cfg.App.Name,
		RequestObserver: prom,
	})

	// Swagger UI en local: http://localhost:<port>/docs (solo si el archivo existe)
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "Almacén API",
		}))
	} else {
		log.Warn().Str("file", cfg.App.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		UserUC:         usecase.NewUserUseCase(userRepo),
		CategoryUC:     usecase.NewCategoryUseCase(categoryRepo),
		SupplierUC:     usecase.NewSupplierUseCase(supplierRepo),
		ProductUC:      usecase.NewProductUseCase(productRepo, categoryRepo, variantRepo),
		StockQuery:     inventory.NewStockQueryUseCase(productRepo, variantRepo, stockCache, log.Zerolog()),
		LowStock:       inventory.NewLowStockUseCase(productRepo),
		Engine:         engine,
		MovementQuery:  inventory.NewMovementQueryUseCase(movementRepo, productRepo, userRepo, supplierRepo),
		VoucherPDF:     voucherUC,
		JWTSecret:      cfg.JWT.Secret,
		LoginRateLimit: cfg.HTTP.LoginRateLimit,
		MetricsHandler: prom.Handler(),
		HealthCheck: func() error {
			hctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := pool.Ping(hctx); err != nil {
				return errors.New("postgres no disponible")
			}
			if rdb != nil {
				if err := rdb.Ping(hctx).Err(); err != nil {
					return errors.New("redis no disponible")
				}
			}
			return nil
		},
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

package http

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/calzado-fabianne/almacen-api/internal/application/auth"
	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/application/inventory"
	"github.com/calzado-fabianne/almacen-api/internal/application/usecase"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
)

// AppConfig parámetros de la aplicación Fiber.
type AppConfig struct {
	Name            string
	BodyLimit       int             // bytes; 0 = valor por defecto de Fiber
	RequestObserver RequestObserver // opcional
}

// NewApp crea la aplicación Fiber con el manejador de errores y los middlewares comunes.
func NewApp(cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger())
	if cfg.RequestObserver != nil {
		app.Use(RequestMetrics(cfg.RequestObserver))
	}
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	CategoryUC    *usecase.CategoryUseCase
	SupplierUC    *usecase.SupplierUseCase
	ProductUC     *usecase.ProductUseCase
	StockQuery    *inventory.StockQueryUseCase
	LowStock      *inventory.LowStockUseCase
	Engine        *inventory.StockMovementEngine
	MovementQuery *inventory.MovementQueryUseCase
	VoucherPDF    *inventory.VoucherPDFUseCase

	JWTSecret      string
	LoginRateLimit int          // intentos de login por minuto e IP; 0 desactiva el límite
	MetricsHandler http.Handler // opcional, se expone en /metrics
	HealthCheck    func() error // opcional
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.HealthCheck != nil {
			if err := deps.HealthCheck(); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "error": err.Error()})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": app.Config().AppName})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api")
	authed := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RoleAdmin)
	warehouseStaff := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", loginLimiter(deps.LoginRateLimit), authHandler.Login)
	authGroup.Get("/verify", authed, authHandler.Verify)
	authGroup.Post("/change-password", authed, authHandler.ChangePassword)

	// Users (solo admin)
	userHandler := NewUserHandler(deps.UserUC)
	users := api.Group("/users", authed, adminOnly)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id<guid>", userHandler.GetByID)
	users.Put("/:id<guid>", userHandler.Update)
	users.Delete("/:id<guid>", userHandler.Delete)

	// Categories: lectura para autenticados, escritura solo admin
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := api.Group("/categories", authed)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id<guid>", categoryHandler.GetByID)
	categories.Post("/", adminOnly, categoryHandler.Create)
	categories.Put("/:id<guid>", adminOnly, categoryHandler.Update)
	categories.Delete("/:id<guid>", adminOnly, categoryHandler.Delete)

	// Suppliers
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := api.Group("/suppliers", authed)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id<guid>", supplierHandler.GetByID)
	suppliers.Post("/", warehouseStaff, supplierHandler.Create)

	// Products
	productHandler := NewProductHandler(deps.ProductUC, deps.StockQuery, deps.LowStock)
	products := api.Group("/products", authed)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id<guid>", productHandler.GetByID)
	products.Get("/:id<guid>/stock", productHandler.Stock)
	products.Post("/", warehouseStaff, productHandler.Create)
	products.Put("/:id<guid>", warehouseStaff, productHandler.Update)

	// Entradas y salidas
	movementHandler := NewMovementHandler(deps.Engine, deps.MovementQuery, deps.VoucherPDF)
	entries := api.Group("/entries", authed)
	entries.Get("/", movementHandler.ListEntries)
	entries.Get("/:id<guid>", movementHandler.GetEntry)
	entries.Get("/:id<guid>/pdf", movementHandler.EntryPDF)
	entries.Post("/", warehouseStaff, movementHandler.CreateEntry)

	exits := api.Group("/exits", authed)
	exits.Get("/", movementHandler.ListExits)
	exits.Get("/:id<guid>", movementHandler.GetExit)
	exits.Get("/:id<guid>/pdf", movementHandler.ExitPDF)
	exits.Post("/", movementHandler.CreateExit)
}

func loginLimiter(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code: "TOO_MANY_REQUESTS", Message: "demasiados intentos de login, espere un minuto",
			})
		},
	})
}

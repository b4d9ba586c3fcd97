package main

import (
	"time"

	"checkout/internal/handlers"
	"checkout/internal/locks"
	"checkout/internal/metrics"
	"checkout/internal/middleware"
	"checkout/internal/repositories"
	"checkout/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Services bundles the application services the HTTP layer is built on.
type Services struct {
	Auth     *services.AuthService
	Products *services.ProductService
	Carts    *services.CartService
	Orders   *services.OrderService
	Payments *services.PaymentService
}

// Wiring carries the collaborators NewServices needs. Gateway, Publisher and Locker may be nil.
type Wiring struct {
	DB           *gorm.DB
	JWTSecret    string
	Gateway      services.PaymentGateway
	Publisher    services.EventPublisher
	Locker       locks.Locker
	OrderLockTTL time.Duration
	Metrics      *metrics.Metrics
}

// NewServices builds the GORM repositories and every service on top of them.
func NewServices(w Wiring) Services {
	productRepo := repositories.NewGORMProductRepository(w.DB)
	userRepo := repositories.NewGORMUserRepository(w.DB)
	cartRepo := repositories.NewGORMCartRepository(w.DB)
	orderRepo := repositories.NewGORMOrderRepository(w.DB)

	carts := services.NewCartService(cartRepo, productRepo)
	orders := services.NewOrderService(orderRepo, carts, w.Locker, w.Publisher, w.Metrics)
	orders.SetLockTTL(w.OrderLockTTL)

	return Services{
		Auth:     services.NewAuthService(userRepo, w.JWTSecret),
		Products: services.NewProductService(productRepo),
		Carts:    carts,
		Orders:   orders,
		Payments: services.NewPaymentService(orderRepo, w.Gateway, w.Locker, w.Publisher, w.Metrics),
	}
}

// NewApp creates the Fiber app with middleware and every route registered.
func NewApp(svc Services, m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(m.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	apiV1 := app.Group("/api/v1")

	// public
	handlers.NewAuthHandler(svc.Auth).RegisterRoutes(apiV1)
	handlers.NewProductHandler(svc.Products).RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(svc.Auth))
	handlers.NewCartHandler(svc.Carts).RegisterRoutes(protected)
	handlers.NewOrderHandler(svc.Orders).RegisterRoutes(protected)
	handlers.NewPaymentHandler(svc.Payments).RegisterRoutes(protected)

	return app
}

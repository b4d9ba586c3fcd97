package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkout/internal/config"
	"checkout/internal/locks"
	"checkout/internal/metrics"
	"checkout/internal/models"
	"checkout/internal/repositories"
	"checkout/internal/services"
	"checkout/pkg/gateway"
	"checkout/pkg/rabbitmq"

	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Database ---
	db, err := openDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	seedProducts(repositories.NewGORMProductRepository(db))

	// --- RabbitMQ (optional) ---
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("RabbitMQ unavailable, order events will not be published: %v", err)
		} else {
			publisher = mqClient
			defer mqClient.Close()
			go consumeOrderEvents(mqClient)
		}
	}

	// --- Order lock ---
	locker := newLocker(cfg.RedisURL)

	// --- Payment gateway ---
	var paymentGateway services.PaymentGateway
	if client, err := gateway.NewClient(cfg.Gateway); err != nil {
		log.Printf("Payment gateway disabled: %v", err)
	} else {
		paymentGateway = client
	}

	m := metrics.New()
	svc := NewServices(Wiring{
		DB:           db,
		JWTSecret:    cfg.JWTSecret,
		Gateway:      paymentGateway,
		Publisher:    publisher,
		Locker:       locker,
		OrderLockTTL: cfg.OrderLockTTL,
		Metrics:      m,
	})
	app := NewApp(svc, m)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

func openDatabase(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Product{},
		&models.User{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderLine{},
	)
}

// newLocker prefers Redis so the per-owner order lock holds across replicas.
func newLocker(redisURL string) locks.Locker {
	if redisURL == "" {
		log.Println("REDIS_URL not set, using in-process order lock")
		return locks.NewMemoryLocker()
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("Invalid REDIS_URL, using in-process order lock: %v", err)
		return locks.NewMemoryLocker()
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unreachable, using in-process order lock: %v", err)
		_ = client.Close()
		return locks.NewMemoryLocker()
	}
	return locks.NewRedisLocker(client)
}

func consumeOrderEvents(mqClient *rabbitmq.Client) {
	log.Println("Starting RabbitMQ consumer for order events...")
	handler := func(msg amqp.Delivery) error {
		var event models.OrderEvent
		if err := rabbitmq.DecodeOrderEvent(msg, &event); err != nil {
			return err
		}
		log.Printf("Received %s for order %s (status %s, total %d)", event.Type, event.OrderID, event.Status, event.TotalAmount)
		return nil
	}
	if err := mqClient.ConsumeOrderEvents(handler); err != nil {
		log.Printf("Failed to start RabbitMQ consumer: %v", err)
	}
}

// seedProducts inserts a small demo catalog when the products table is empty.
func seedProducts(repo repositories.ProductRepository) {
	ctx := context.Background()
	existing, err := repo.GetAll(ctx)
	if err != nil {
		log.Printf("Error reading products before seeding: %v", err)
		return
	}
	if len(existing) > 0 {
		return
	}

	products := []models.Product{
		{Name: "Laptop", Description: "High performance laptop", Price: 1200000, Category: "electronics", StockQuantity: 10, IsActive: true},
		{Name: "Keyboard", Description: "Mechanical keyboard", Price: 75000, Category: "accessories", StockQuantity: 25, IsActive: true},
		{Name: "Mouse", Description: "Ergonomic wireless mouse", Price: 25000, Category: "accessories", StockQuantity: 50, IsActive: true},
	}
	for i := range products {
		if err := repo.Create(ctx, &products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		} else {
			log.Printf("Seeded product: %s (ID: %s)", products[i].Name, products[i].ID)
		}
	}
}

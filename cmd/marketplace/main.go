package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	cartcache "github.com/lojavirtual/marketplace/internal/cart/cache"
	cartrepo "github.com/lojavirtual/marketplace/internal/cart/repository"
	cartservice "github.com/lojavirtual/marketplace/internal/cart/service"
	"github.com/lojavirtual/marketplace/internal/catalog"
	"github.com/lojavirtual/marketplace/internal/customer"
	"github.com/lojavirtual/marketplace/internal/inventory"
	orderrepo "github.com/lojavirtual/marketplace/internal/order/repository"
	orderservice "github.com/lojavirtual/marketplace/internal/order/service"
	"github.com/lojavirtual/marketplace/internal/outbox"
	"github.com/lojavirtual/marketplace/internal/payment"
	"github.com/lojavirtual/marketplace/internal/server"
	"github.com/lojavirtual/marketplace/internal/tracking"
	"github.com/lojavirtual/marketplace/pkg/qrcode"
	"github.com/redis/go-redis/v9"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("marketplace starting...")
	var wg sync.WaitGroup

	// Configuration
	httpPort := getEnv("HTTP_PORT", "8080")
	kafkaBrokers := getEnv("KAFKA_BROKERS", "localhost:9092")
	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017")
	mongoDBName := getEnv("MONGO_DB_NAME", "cartdb")
	labelDir := getEnv("LABEL_DIR", "./labels")

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}
	creds := &orderrepo.Credentials{
		Host:              getEnv("DB_HOST", "localhost"),
		Port:              dbPort,
		User:              getEnv("DB_USER", "postgres"),
		Password:          getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "marketplace"),
		MigrationsDirPath: getEnv("MIGRATIONS_PATH", "./migrations"),
	}

	pixWindow, err := strconv.Atoi(getEnv("PIX_EXPIRY_MINUTES", "15"))
	if err != nil {
		log.Fatalf("Invalid PIX_EXPIRY_MINUTES: %v", err)
	}
	pixCfg := payment.Config{
		Key:         getEnv("PIX_KEY", "vendas@lojavirtual.com.br"),
		Beneficiary: getEnv("PIX_BENEFICIARY", "LOJA VIRTUAL LTDA"),
		City:        getEnv("PIX_CITY", "SAO PAULO"),
		Window:      time.Duration(pixWindow) * time.Minute,
	}

	// Postgres holds orders, payments, tracking, inventory and registrations
	db, err := orderrepo.Open(creds)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := orderrepo.RunMigrations(db, creds.MigrationsDirPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// MongoDB holds carts
	ctx := context.Background()
	mongoDB, err := cartrepo.ConnectMongoDB(ctx, mongoURI, mongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Client().Disconnect(ctx)
	log.Printf("Connected to MongoDB at %s", mongoURI)

	cartRepository := cartrepo.NewMongoRepository(mongoDB)
	if err := cartRepository.CreateIndexes(ctx); err != nil {
		log.Fatalf("Failed to create cart indexes: %v", err)
	}

	// Redis fronts the cart reads
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	cache := cartcache.NewBreakerCache(cartcache.NewRedisCache(redisClient))

	// Wiring
	cat := catalog.NewPostgresCatalog(db)
	book := customer.NewPostgresBook(db)
	ledger := inventory.NewPostgresLedger(db)
	encoder := qrcode.NewPNGEncoder()

	carts := cartservice.NewCartService(cartRepository, cache, cat, ledger)

	labelStore, err := tracking.NewFSStore(labelDir)
	if err != nil {
		log.Fatalf("Failed to create label store: %v", err)
	}

	ordersRepository := orderrepo.NewRepository(db)
	trackingGen := tracking.NewGenerator(
		tracking.NewPostgresRepository(db),
		ordersRepository,
		cat,
		book,
		book,
		encoder,
		labelStore,
	)

	orders := orderservice.NewOrderService(
		ordersRepository,
		carts,
		cat,
		ledger,
		book,
		book.Instruments(),
		trackingGen,
	)
	payments := payment.NewService(payment.NewPostgresRepository(db), orders, encoder, pixCfg)
	orders.SetPixGenerator(payments)

	// Outbox poller publishes order events to Kafka
	poller := outbox.NewPoller(ordersRepository, strings.Split(kafkaBrokers, ",")...)
	pollerCtx, pollerCancel := context.WithCancel(context.Background())
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Run(pollerCtx)
	}()

	router := server.NewRouter(
		server.NewCartHandler(carts),
		server.NewOrdersHandler(orders),
		server.NewPaymentsHandler(payments),
		server.NewTrackingHandler(trackingGen),
	)

	httpServer := &http.Server{
		Addr:    ":" + httpPort,
		Handler: router,
	}

	go func() {
		log.Printf("Marketplace listening on :%s", httpPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down marketplace...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	pollerCancel()

	doneChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneChan)
	}()

	select {
	case <-doneChan:
		log.Println("Poller stopped cleanly")
	case <-shutdownCtx.Done():
		log.Println("Poller didn't stop in time")
	}

	log.Println("Marketplace stopped")
}

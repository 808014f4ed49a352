package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/payment/mpesa"
	"github.com/example/storefront/internal/query"
	"github.com/example/storefront/internal/session"
	"github.com/example/storefront/internal/store"
	"github.com/example/storefront/internal/web"
	"github.com/redis/go-redis/v9"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Configuration from environment variables
	addr := ":" + getEnv("PORT", "8080")
	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017")
	mongoDB := getEnv("MONGO_DB", "storefront")
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	kafkaTopic := getEnv("KAFKA_TOPIC", "storefront-orders")
	mpesaBaseURL := getEnv("MPESA_BASE_URL", "http://localhost:9090")
	secureCookies := getEnv("SECURE_COOKIES", "false") == "true"

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("[Web] SESSION_SECRET environment variable is required")
	}
	if len(sessionSecret) < 32 {
		log.Fatal("[Web] SESSION_SECRET must be at least 32 characters long")
	}

	log.Println("[Web] ========================================")
	log.Println("[Web] Storefront - Web Server")
	log.Println("[Web] ========================================")
	log.Printf("[Web] Mongo: %s/%s", mongoURI, mongoDB)
	log.Printf("[Web] Redis: %s", redisAddr)
	log.Printf("[Web] Kafka: %v topic %s", kafkaBrokers, kafkaTopic)
	log.Printf("[Web] Payment gateway: %s", mpesaBaseURL)

	// MongoDB
	connectCtx, connectCancel := context.WithTimeout(ctx, 15*time.Second)
	db, err := store.ConnectMongo(connectCtx, mongoURI, mongoDB)
	connectCancel()
	if err != nil {
		log.Fatalf("[Web] Failed to connect to MongoDB: %v", err)
	}
	defer db.Client().Disconnect(context.Background())
	log.Println("[Web] Connected to MongoDB")

	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("[Web] Failed to ensure indexes: %v", err)
	}

	// Redis (sessions and catalog snapshot)
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("[Web] Failed to connect to Redis: %v", err)
	}
	log.Println("[Web] Connected to Redis")

	// Kafka producer for order events
	producer := kafka.NewProducer(kafkaBrokers, kafkaTopic)
	defer producer.Close()

	// Stores
	products := store.NewMongoProductStore(db)
	orders := store.NewMongoOrderStore(db)
	users := store.NewMongoUserStore(db)
	intents := store.NewMongoIntentStore(db)
	messages := store.NewMongoMessageStore(db)

	// Services
	sessions := session.NewManager(redisClient, sessionSecret, 24*time.Hour, secureCookies)
	cat := catalog.NewService(products, catalog.NewRedisCache(redisClient, 5*time.Minute))
	accounts := auth.NewService(users)
	gateway := mpesa.NewClient(mpesaBaseURL, 30*time.Second)
	orchestrator := checkout.NewOrchestrator(orders, intents, gateway, producer)
	querySvc := query.NewService(orders, products, users)

	handlers := web.NewHandlers(sessions, cat, accounts, orchestrator, orders, products, users, messages, querySvc)
	router := web.NewRouter(handlers, sessions)

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Printf("[Web] Server started on %s", addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[Web] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Web] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/storefront/internal/reconciler"
	"github.com/example/storefront/internal/store"
	"github.com/robfig/cron/v3"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Configuration from environment variables
	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017")
	mongoDB := getEnv("MONGO_DB", "storefront")
	schedule := getEnv("RECONCILE_SCHEDULE", "@every 10m")

	log.Println("[Reconciler] ========================================")
	log.Println("[Reconciler] Storefront - Payment Reconciler")
	log.Println("[Reconciler] ========================================")
	log.Printf("[Reconciler] Mongo: %s/%s", mongoURI, mongoDB)
	log.Printf("[Reconciler] Schedule: %s", schedule)

	connectCtx, connectCancel := context.WithTimeout(ctx, 15*time.Second)
	db, err := store.ConnectMongo(connectCtx, mongoURI, mongoDB)
	connectCancel()
	if err != nil {
		log.Fatalf("[Reconciler] Failed to connect to MongoDB: %v", err)
	}
	defer db.Client().Disconnect(context.Background())
	log.Println("[Reconciler] Connected to MongoDB")

	rec := reconciler.New(store.NewMongoIntentStore(db), 10*time.Minute)

	scan := func() {
		scanCtx, scanCancel := context.WithTimeout(ctx, time.Minute)
		defer scanCancel()
		if _, err := rec.Run(scanCtx); err != nil {
			log.Printf("[Reconciler] Scan failed: %v", err)
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, scan); err != nil {
		log.Fatalf("[Reconciler] Invalid schedule %q: %v", schedule, err)
	}

	// One scan at startup, then on the schedule.
	scan()
	c.Start()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Reconciler] Shutting down...")
	<-c.Stop().Done()
	cancel()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

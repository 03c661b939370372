package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hemantmeena2005/eventbooking/internal/repository"
	"github.com/hemantmeena2005/eventbooking/internal/worker"
	"github.com/hemantmeena2005/eventbooking/pkg/config"
	"github.com/hemantmeena2005/eventbooking/pkg/database"
	"github.com/hemantmeena2005/eventbooking/pkg/kafka"
	"github.com/hemantmeena2005/eventbooking/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logCfg := &logger.Config{
		Level:       "info",
		ServiceName: "outbox-worker",
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting outbox worker...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbCfg := &database.PostgresConfig{
		Host:          cfg.Database.Host,
		Port:          cfg.Database.Port,
		User:          cfg.Database.User,
		Password:      cfg.Database.Password,
		Database:      cfg.Database.DBName,
		SSLMode:       cfg.Database.SSLMode,
		MaxConns:      10,
		MinConns:      2,
		MaxRetries:    3,
		RetryInterval: time.Second,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()
	appLog.Info("Database connected")

	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:        cfg.Kafka.Brokers,
		ClientID:       cfg.Kafka.ClientID + "-outbox",
		MaxRetries:     3,
		RetryInterval:  2 * time.Second,
		ProduceTimeout: 10 * time.Second,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Kafka connection failed: %v", err))
	}
	defer producer.Close()
	appLog.Info("Kafka producer connected")

	outboxRepo := repository.NewPostgresOutboxRepository(db.Pool())

	w := worker.NewOutboxWorker(outboxRepo, producer, worker.DefaultOutboxWorkerConfig())
	if err := w.Start(ctx); err != nil {
		appLog.Fatal(fmt.Sprintf("Failed to start outbox worker: %v", err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("Shutting down...")
	cancel()
	w.Stop()
	appLog.Info("Outbox worker stopped")
}

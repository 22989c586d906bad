package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pawnshop-service/config"
	"pawnshop-service/internal/api"
	"pawnshop-service/internal/broker"
	"pawnshop-service/internal/notify"
	"pawnshop-service/internal/redisclient"
	"pawnshop-service/internal/service"
	"pawnshop-service/internal/store"
	"pawnshop-service/internal/util"
	"pawnshop-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting pawnshop service")

	tp, err := util.InitTracer("pawnshop-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	log.Println("Database ready")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		// The cache and number lock are conveniences; the shop keeps running
		// on the database alone.
		log.Printf("Redis unavailable, running without cache: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicContract)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	defaults := service.Defaults{
		ContractPrefix: cfg.Business.ContractPrefix,
		CustomerPrefix: cfg.Business.CustomerPrefix,
		Days:           cfg.Business.DefaultDays,
		InterestRate:   cfg.Business.DefaultInterestRate,
	}

	contractService := service.NewContractService(db, redisClient, eventPublisher, defaults)
	registryService := service.NewRegistryService(db, cfg.Shop.ImageDir, defaults)
	reportService := service.NewReportService(db, redisClient)

	lineClient := notify.NewLineClient(cfg.Line.ChannelToken, cfg.Line.RecipientID)
	if !lineClient.Enabled() {
		log.Println("LINE credentials missing, notifications disabled")
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicContract, cfg.Kafka.ConsumerGroup)
	notificationWorker := worker.NewNotificationWorker(consumer, lineClient)
	go func() {
		if err := notificationWorker.Start(workerCtx); err != nil && workerCtx.Err() == nil {
			log.Printf("Notification worker error: %v", err)
		}
	}()

	scanner := worker.NewForfeitureScanner(contractService,
		time.Duration(cfg.Business.ForfeitScanMinutes)*time.Minute)
	go func() {
		if err := scanner.Start(workerCtx); err != nil && workerCtx.Err() == nil {
			log.Printf("Forfeiture scanner error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(contractService, registryService, reportService)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	notificationWorker.Stop()

	log.Println("Server exited")
}

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

	"camp-service/config"
	"camp-service/internal/api"
	"camp-service/internal/broker"
	"camp-service/internal/gateway"
	"camp-service/internal/redisclient"
	"camp-service/internal/service"
	"camp-service/internal/store"
	"camp-service/internal/util"
	"camp-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting camp service")

	tp, err := util.InitTracer("camp-service", cfg.Observ.JaegerEndpoint)
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

	// The store is optional: without it the service still serves fixture
	// data and dev-mode registration ids.
	var db *store.Store
	var regStore service.RegistrationStore
	var galStore service.GalleryStore
	if cfg.Database.URL == "" {
		log.Println("DATABASE_URL not set, running without a store")
	} else if db, err = store.NewStore(cfg.Database.URL); err != nil {
		log.Printf("Failed to connect to database, running without a store: %v", err)
		db = nil
	} else {
		defer db.Close()
		regStore = db
		galStore = db
		log.Println("Database connected")
	}

	var redisClient *redisclient.Client
	var deduper service.EventDeduper
	if redisClient, err = redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Printf("Failed to connect to Redis, running without dedupe/cache: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		deduper = redisClient
		log.Println("Redis connected")
	}

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	var gatewayClient gateway.Client
	if cfg.Gateway.Configured() {
		gatewayClient = gateway.NewHTTPClient(cfg.Gateway.APIBase, cfg.Gateway.SecretKey)
		log.Println("Payment gateway client initialized")
	} else {
		log.Println("GATEWAY_SECRET_KEY not set, checkout runs in demo mode")
	}

	registrationService := service.NewRegistrationService(regStore, eventPublisher)
	checkoutService := service.NewCheckoutService(gatewayClient, cfg.Gateway)
	reconciler := service.NewReconciler(regStore, deduper, eventPublisher, cfg.Gateway.WebhookSecret)
	adminService := service.NewAdminService(regStore, redisClient)
	galleryService := service.NewGalleryService(galStore)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	notifyConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents, cfg.Kafka.ConsumerGroup)
	notificationWorker := worker.NewNotificationWorker(notifyConsumer)
	go func() {
		if err := notificationWorker.Start(workerCtx); err != nil {
			log.Printf("Notification worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(registrationService, checkoutService, reconciler, adminService, galleryService, cfg.Admin.Token)
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

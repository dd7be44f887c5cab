package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benmed00/lucid-web-craftsman-sub003/controllers"
	"github.com/benmed00/lucid-web-craftsman-sub003/database"
	"github.com/benmed00/lucid-web-craftsman-sub003/kafka"
	"github.com/benmed00/lucid-web-craftsman-sub003/models"
	aws_pkg "github.com/benmed00/lucid-web-craftsman-sub003/pkg/aws"
	"github.com/benmed00/lucid-web-craftsman-sub003/repository"
	"github.com/benmed00/lucid-web-craftsman-sub003/routes"
	servicepkg "github.com/benmed00/lucid-web-craftsman-sub003/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := database.Connect(cfg.PostgresConfig(), logger,
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStateTransition{},
		&models.OrderStatusHistory{},
		&models.OrderAnomaly{},
	)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close() //nolint:errcheck

	if err := database.SeedTransitions(db); err != nil {
		logger.Fatal("Failed to seed transition table", zap.Error(err))
	}

	// Kafka producer for order events
	var producer kafka.ProducerAPI
	if len(cfg.KafkaBrokers) > 0 {
		p := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer p.Close() //nolint:errcheck
		producer = p
	} else {
		logger.Warn("KAFKA_BROKERS not set, event publishing disabled")
	}

	// AWS clients
	var snsClient aws_pkg.SNSPublisher
	if cfg.OrderSNSTopicARN != "" {
		awsCfg, awsErr := aws_pkg.LoadAWSConfig(context.Background())
		if awsErr != nil {
			logger.Warn("AWS config unavailable, SNS disabled", zap.Error(awsErr))
		} else {
			snsClient = aws_pkg.NewSNSClient(awsCfg)
		}
	}

	// Payment providers
	var paypalProvider servicepkg.PaymentProvider
	if cfg.PayPalClientID != "" && cfg.PayPalClientSecret != "" {
		pp, ppErr := servicepkg.NewPayPalProvider(cfg.PayPalClientID, cfg.PayPalClientSecret, cfg.PayPalSandbox)
		if ppErr != nil {
			logger.Fatal("Failed to init PayPal client", zap.Error(ppErr))
		}
		paypalProvider = pp
	} else {
		logger.Warn("PayPal credentials not set, PayPal verification disabled")
	}

	var stripeProvider servicepkg.PaymentProvider
	if cfg.StripeSecretKey != "" {
		stripeProvider = servicepkg.NewStripeProvider(cfg.StripeSecretKey)
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, Stripe verification disabled")
	}

	// DI chain
	orderRepo := repository.NewGormOrderRepository(db)
	transitionRepo := repository.NewGormTransitionRepository(db)
	historyRepo := repository.NewGormHistoryRepository(db)
	anomalyRepo := repository.NewGormAnomalyRepository(db)

	notifier := servicepkg.NewEventNotifier(producer, snsClient, cfg.OrderSNSTopicARN, logger)

	statusService := servicepkg.NewStatusService(orderRepo, transitionRepo, historyRepo, logger)
	paymentService := servicepkg.NewPaymentService(orderRepo, historyRepo, notifier, cfg.PaymentConfig(), logger)
	anomalyService := servicepkg.NewAnomalyService(orderRepo, anomalyRepo, logger)
	webhookService := servicepkg.NewWebhookService(orderRepo, historyRepo, anomalyService, notifier, logger)

	statusController := controllers.NewStatusController(statusService, notifier, logger)
	paymentController := controllers.NewPaymentController(paymentService, paypalProvider, stripeProvider, logger)
	webhookController := controllers.NewWebhookController(webhookService, logger)
	anomalyController := controllers.NewAnomalyController(anomalyService, logger)

	r := gin.New()
	r.Use(gin.Recovery())

	// Global request-logging middleware
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", duration),
		)
	})

	// 30-second request timeout
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "order-lifecycle-service"})
	})

	routes.RegisterOrderRoutes(r, cfg.ServiceToken, statusController, paymentController, webhookController, anomalyController)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	logger.Info("Order lifecycle service started", zap.String("port", cfg.Port))
	<-quit
	logger.Info("Shutting down order lifecycle service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited cleanly")
}

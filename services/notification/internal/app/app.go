package internal

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"webhook-gateway/pkg/config"
	"webhook-gateway/pkg/logger"
	"webhook-gateway/pkg/metrics"
	"webhook-gateway/pkg/middleware"
	notificationHTTP "webhook-gateway/services/notification/internal/controller/http"
	"webhook-gateway/services/notification/internal/entity"
	"webhook-gateway/services/notification/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "webhook-gateway/services/notification/docs" // Swagger docs
)

// Deps is everything NewRouter needs. RedisClient may be nil, which disables rate limiting.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Secrets     config.SecretSource
	Handlers    entity.Visitor
	RedisClient *redis.Client
	Registry    *prometheus.Registry
}

func NewRouter(deps Deps) *gin.Engine {
	cfg := deps.Config
	log := deps.Logger
	zlog := log.Zap()

	webhookMetrics := metrics.NewWebhook(deps.Registry)

	// Initialize UseCase
	dispatchUseCase := usecase.NewDispatchUseCase(deps.Handlers, webhookMetrics, log)

	// Initialize HTTP handlers
	webhookHandler := notificationHTTP.NewWebhookHandler(dispatchUseCase, log)

	r := gin.New()
	r.Use(middleware.RequestLogger(zlog))
	r.Use(middleware.RecoveryMiddleware(zlog, notificationHTTP.ProcessingFailedMessage))

	// CORS middleware
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Accept", middleware.HeaderXRequestID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderXRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORSAllowedOrigins) == 0 || containsWildcard(cfg.CORSAllowedOrigins) {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
		corsConfig.AllowCredentials = true
	}
	r.Use(cors.New(corsConfig))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Rate limiting sits in front of auth, so rejected requests count against the budget too
	var chain []gin.HandlerFunc
	if deps.RedisClient != nil && cfg.RateLimitEnabled {
		chain = append(chain, middleware.RateLimitMiddleware(deps.RedisClient, cfg.RateLimitRequests, cfg.RateLimitWindow, zlog))
	}
	chain = append(chain,
		middleware.WebhookAuthMiddleware(deps.Secrets, webhookMetrics, zlog),
		middleware.BodyLimitMiddleware(cfg.WebhookMaxBodyBytes),
		webhookHandler.HandleNotification,
	)
	r.POST("/notifications", chain...)

	return r
}

func Run(cfg *config.Config, log *logger.Logger, redisClient *redis.Client) {
	secrets := config.NewSecretStore(cfg.WebhookSecret)
	if cfg.WebhookSecret == "" {
		log.Warn("WEBHOOK_SECRET is empty; all webhook requests will be rejected until it is set")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := NewRouter(Deps{
		Config:      cfg,
		Logger:      log,
		Secrets:     secrets,
		Handlers:    usecase.NewLoggingHandlers(log),
		RedisClient: redisClient,
		Registry:    registry,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()

	// Pick up secret rotations from the env file
	if cfg.WebhookSecretReload {
		go func() {
			if err := config.WatchSecret(watchCtx, cfg.WebhookEnvFile, secrets, log.Zap()); err != nil {
				log.Warn("Webhook secret reload disabled: %v", err)
			}
		}()
	}

	// Start server in a goroutine
	go func() {
		log.Info("Notification webhook service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down notification webhook service...")
	stopWatch()

	// The context is used to inform the server it has 5 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Close Redis connection
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	log.Info("Notification webhook service exited")
	log.Sync()
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

package main

import (
	"webhook-gateway/pkg/cache"
	"webhook-gateway/pkg/config"
	"webhook-gateway/pkg/logger"
	notificationApp "webhook-gateway/services/notification/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// @title           Notification Webhook API
// @version         1.0
// @description     Receives notification events, authenticates them with a shared secret and routes them by type.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the shared webhook secret.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewWithConfig(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		panic(err)
	}

	var redisClient *redis.Client
	if cfg.RateLimitEnabled {
		redisClient, err = cache.NewRedisClient(cfg)
		if err != nil {
			log.Error("Failed to connect to redis: %v (continuing without rate limiting)", err)
			redisClient = nil
		}
	}

	notificationApp.Run(cfg, log, redisClient)
}

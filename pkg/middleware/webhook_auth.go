package middleware

import (
	"crypto/subtle"
	"net/http"

	"webhook-gateway/pkg/config"
	"webhook-gateway/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// WebhookAuthMiddleware accepts a request only when its Authorization header is
// exactly "Bearer <secret>". The secret is read from secrets on every request, so
// swapping the value in the source takes effect immediately. An empty secret
// rejects everything.
func WebhookAuthMiddleware(secrets config.SecretSource, m *metrics.Webhook, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authorized(c.GetHeader("Authorization"), secrets.Secret()) {
			// Never log the body or the presented header here.
			log.Warn("Unauthorized webhook request",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			m.ObserveAuthFailure()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized webhook request"})
			return
		}

		c.Next()
	}
}

func authorized(header, secret string) bool {
	if secret == "" {
		return false
	}
	expected := bearerPrefix + secret
	return subtle.ConstantTimeCompare([]byte(header), []byte(expected)) == 1
}

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"webhook-gateway/pkg/config"
	"webhook-gateway/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func newAuthRouter(secrets config.SecretSource, m *metrics.Webhook, reached *int) *gin.Engine {
	router := setupTestRouter()
	router.Use(WebhookAuthMiddleware(secrets, m, zap.NewNop()))
	router.POST("/notifications", func(c *gin.Context) {
		*reached++
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestWebhookAuthMiddleware_ValidSecret(t *testing.T) {
	reached := 0
	router := newAuthRouter(config.StaticSecret("correct-secret"), nil, &reached)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/notifications", nil)
	req.Header.Set("Authorization", "Bearer correct-secret")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, reached)
}

func TestWebhookAuthMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong secret", "Bearer wrong"},
		{"lowercase scheme", "bearer correct-secret"},
		{"missing scheme", "correct-secret"},
		{"trailing space", "Bearer correct-secret "},
		{"double space", "Bearer  correct-secret"},
		{"prefix of secret", "Bearer correct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := 0
			router := newAuthRouter(config.StaticSecret("correct-secret"), nil, &reached)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/notifications", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, 0, reached)

			var response map[string]interface{}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, "Unauthorized webhook request", response["error"])
		})
	}
}

func TestWebhookAuthMiddleware_EmptySecretRejectsEverything(t *testing.T) {
	reached := 0
	router := newAuthRouter(config.StaticSecret(""), nil, &reached)

	for _, header := range []string{"", "Bearer ", "Bearer undefined"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/notifications", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
	assert.Equal(t, 0, reached)
}

func TestWebhookAuthMiddleware_SecretReadPerRequest(t *testing.T) {
	reached := 0
	store := config.NewSecretStore("old-secret")
	router := newAuthRouter(store, nil, &reached)

	send := func(header string) int {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/notifications", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("Bearer old-secret"))

	store.Set("new-secret")

	assert.Equal(t, http.StatusUnauthorized, send("Bearer old-secret"))
	assert.Equal(t, http.StatusOK, send("Bearer new-secret"))
	assert.Equal(t, 2, reached)
}

func TestWebhookAuthMiddleware_CountsFailures(t *testing.T) {
	reached := 0
	m := metrics.NewWebhook(prometheus.NewRegistry())
	router := newAuthRouter(config.StaticSecret("s"), m, &reached)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/notifications", nil)
	req.Header.Set("Authorization", "Bearer nope")
	router.ServeHTTP(w, req)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthFailures))
}

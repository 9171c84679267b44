package http

import (
	"errors"
	"net/http"

	"webhook-gateway/pkg/logger"
	"webhook-gateway/services/notification/internal/entity"
	"webhook-gateway/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
)

// ProcessingFailedMessage is the 500 body for decode and handler failures.
const ProcessingFailedMessage = "Webhook processing failed"

type WebhookHandler struct {
	dispatchUseCase usecase.DispatchUseCase
	logger          *logger.Logger
}

func NewWebhookHandler(dispatchUseCase usecase.DispatchUseCase, logger *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		dispatchUseCase: dispatchUseCase,
		logger:          logger,
	}
}

// NotificationRequest documents the webhook body.
type NotificationRequest struct {
	Type   string                 `json:"type" example:"payment"`
	UserID string                 `json:"userId" example:"u1"`
	Title  string                 `json:"title" example:"Payment received"`
	Data   map[string]interface{} `json:"data"`
}

type NotificationResponse struct {
	Success   bool `json:"success" example:"true"`
	Processed bool `json:"processed" example:"true"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleNotification godoc
// @Summary      Receive a notification event
// @Description  Authenticates with the shared bearer secret, routes the event by type and acknowledges it. Unknown types are accepted and ignored. While no secret is configured every request is rejected with 401.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body NotificationRequest true "Notification event"
// @Success      200  {object}  NotificationResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      429  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /notifications [post]
func (h *WebhookHandler) HandleNotification(c *gin.Context) {
	notification, err := entity.DecodeNotification(c.Request.Body)
	if err != nil {
		h.fail(c, err)
		return
	}

	if _, err := h.dispatchUseCase.Dispatch(c.Request.Context(), notification); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, NotificationResponse{Success: true, Processed: true})
}

func (h *WebhookHandler) fail(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		h.logger.Warn("Webhook body exceeds %d bytes", maxBytesErr.Limit)
	case errors.Is(err, entity.ErrMalformedPayload):
		h.logger.Warn("Failed to decode webhook body: %v", err)
	default:
		h.logger.Error("Webhook processing failed: %v", err)
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: ProcessingFailedMessage})
}

package controllers

import (
	"net/http"
	"time"

	"github.com/benmed00/lucid-web-craftsman-sub003/middleware"
	"github.com/benmed00/lucid-web-craftsman-sub003/models"
	"github.com/benmed00/lucid-web-craftsman-sub003/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatusController exposes the order status transition endpoints.
type StatusController struct {
	status   *services.StatusService
	notifier services.Notifier
	logger   *zap.Logger
}

func NewStatusController(status *services.StatusService, notifier services.Notifier, logger *zap.Logger) *StatusController {
	return &StatusController{status: status, notifier: notifier, logger: logger}
}

type updateStatusPayload struct {
	NewStatus     string                 `json:"new_status" binding:"required"`
	ReasonCode    string                 `json:"reason_code"`
	ReasonMessage string                 `json:"reason_message"`
	Comment       string                 `json:"comment"`
	Metadata      map[string]interface{} `json:"metadata"`
}

// UpdateStatus handles POST /orders/:id/status.
func (ctl *StatusController) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id", "code": services.CodeInvalidPayload})
		return
	}

	var payload updateStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": services.CodeInvalidPayload})
		return
	}

	req := &services.UpdateStatusRequest{
		OrderID:       orderID,
		NewStatus:     payload.NewStatus,
		Actor:         actorFor(c),
		ReasonCode:    payload.ReasonCode,
		ReasonMessage: payload.ReasonMessage,
		Comment:       payload.Comment,
		Metadata:      payload.Metadata,
		RequestIP:     c.ClientIP(),
		UserAgent:     c.Request.UserAgent(),
	}
	if userID, ok := middleware.GetUserID(c); ok {
		req.ActorUserID = userID
	}

	result, svcErr := ctl.status.UpdateOrderStatus(c.Request.Context(), req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "code": svcErr.Code})
		return
	}

	if result.AutoNotify && !result.NoOp {
		ctl.notifier.Publish(c.Request.Context(), result.OrderID.String(), models.OrderStatusChangedEvent{
			EventType:      "order_status_changed",
			OrderID:        result.OrderID.String(),
			OrderNumber:    result.OrderNumber,
			UserID:         result.UserID,
			PreviousStatus: result.OldStatus,
			NewStatus:      result.NewStatus,
			ChangedBy:      req.Actor,
			ReasonCode:     payload.ReasonCode,
			Timestamp:      time.Now().UTC(),
		})
	}

	c.JSON(http.StatusOK, result)
}

// ListTransitions handles GET /orders/:id/transitions. Customers only see the
// edges they are allowed to take themselves.
func (ctl *StatusController) ListTransitions(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id", "code": services.CodeInvalidPayload})
		return
	}

	customerOnly := !middleware.IsInternal(c) && !middleware.IsAdmin(c)
	transitions, svcErr := ctl.status.ListTransitions(c.Request.Context(), orderID, customerOnly)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "code": svcErr.Code})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": orderID, "transitions": transitions})
}

// ListHistory handles GET /orders/:id/history.
func (ctl *StatusController) ListHistory(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id", "code": services.CodeInvalidPayload})
		return
	}

	history, svcErr := ctl.status.ListHistory(c.Request.Context(), orderID)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "code": svcErr.Code})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": orderID, "history": history})
}

// actorFor derives the transition actor from the request principal.
func actorFor(c *gin.Context) string {
	switch {
	case middleware.IsInternal(c):
		return models.ActorSystem
	case middleware.IsAdmin(c):
		return models.ActorAdmin
	default:
		return models.ActorCustomer
	}
}

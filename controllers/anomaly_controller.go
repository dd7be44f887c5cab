package controllers

import (
	"net/http"

	"github.com/benmed00/lucid-web-craftsman-sub003/middleware"
	"github.com/benmed00/lucid-web-craftsman-sub003/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnomalyController exposes anomaly reporting and resolution endpoints.
type AnomalyController struct {
	anomalies *services.AnomalyService
	logger    *zap.Logger
}

func NewAnomalyController(anomalies *services.AnomalyService, logger *zap.Logger) *AnomalyController {
	return &AnomalyController{anomalies: anomalies, logger: logger}
}

type recordAnomalyPayload struct {
	Type        string                 `json:"type" binding:"required"`
	Severity    string                 `json:"severity" binding:"required"`
	Title       string                 `json:"title" binding:"required"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata"`
}

type resolveAnomalyPayload struct {
	Notes  string `json:"notes"`
	Action string `json:"action"`
}

// Record handles POST /orders/:id/anomalies.
func (ctl *AnomalyController) Record(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id", "code": services.CodeInvalidPayload})
		return
	}

	var payload recordAnomalyPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": services.CodeInvalidPayload})
		return
	}

	detectedBy := "admin"
	if middleware.IsInternal(c) {
		detectedBy = "system"
	}

	anomaly, svcErr := ctl.anomalies.Record(c.Request.Context(), &services.RecordAnomalyRequest{
		OrderID:     orderID,
		Type:        payload.Type,
		Severity:    payload.Severity,
		Title:       payload.Title,
		Description: payload.Description,
		DetectedBy:  detectedBy,
		Metadata:    payload.Metadata,
	})
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "code": svcErr.Code})
		return
	}
	c.JSON(http.StatusCreated, anomaly)
}

// ListByOrder handles GET /orders/:id/anomalies.
func (ctl *AnomalyController) ListByOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id", "code": services.CodeInvalidPayload})
		return
	}

	anomalies, svcErr := ctl.anomalies.ListByOrder(c.Request.Context(), orderID)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "code": svcErr.Code})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": orderID, "anomalies": anomalies})
}

// Resolve handles POST /anomalies/:id/resolve. Resolving an already resolved
// anomaly returns the stored record unchanged.
func (ctl *AnomalyController) Resolve(c *gin.Context) {
	anomalyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid anomaly id", "code": services.CodeInvalidPayload})
		return
	}

	var payload resolveAnomalyPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": services.CodeInvalidPayload})
		return
	}

	resolvedBy := uuid.Nil
	if userID, ok := middleware.GetUserID(c); ok {
		resolvedBy = *userID
	}

	anomaly, svcErr := ctl.anomalies.Resolve(c.Request.Context(), anomalyID, resolvedBy, payload.Notes, payload.Action)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "code": svcErr.Code})
		return
	}
	c.JSON(http.StatusOK, anomaly)
}

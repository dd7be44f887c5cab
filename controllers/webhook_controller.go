package controllers

import (
	"net/http"

	"github.com/benmed00/lucid-web-craftsman-sub003/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookController receives carrier tracking webhooks. Carriers authenticate
// out of band (IP allow-listing at the edge); the handler itself only needs to
// identify which carrier dialect to parse.
type WebhookController struct {
	webhooks *services.WebhookService
	logger   *zap.Logger
}

func NewWebhookController(webhooks *services.WebhookService, logger *zap.Logger) *WebhookController {
	return &WebhookController{webhooks: webhooks, logger: logger}
}

// HandleCarrierWebhook handles POST /webhooks/carrier/:carrier. The carrier
// name may also arrive in the x-carrier header when the route param is absent.
func (ctl *WebhookController) HandleCarrierWebhook(c *gin.Context) {
	carrierName := c.Param("carrier")
	if carrierName == "" {
		carrierName = c.GetHeader("x-carrier")
	}

	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty webhook body", "code": services.CodeInvalidPayload})
		return
	}

	result, svcErr := ctl.webhooks.ProcessCarrierWebhook(c.Request.Context(), carrierName, body)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "code": svcErr.Code})
		return
	}
	c.JSON(http.StatusOK, result)
}

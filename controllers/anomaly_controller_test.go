package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benmed00/lucid-web-craftsman-sub003/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRecordAnomaly_AdminOnly(t *testing.T) {
	order := shippedOrder("T1")
	env := setupRouter(newMemOrderRepo(order), nil)

	body := `{"type": "fraud", "severity": "critical", "title": "Fraud score above threshold"}`

	asCustomer := postJSON(env.router, "/orders/"+order.ID.String()+"/anomalies", body,
		map[string]string{"X-User-ID": uuid.NewString()})
	assert.Equal(t, http.StatusForbidden, asCustomer.Code)

	asAdmin := postJSON(env.router, "/orders/"+order.ID.String()+"/anomalies", body, adminHeaders())
	assert.Equal(t, http.StatusCreated, asAdmin.Code)

	stored := env.orders.orders[order.ID]
	assert.True(t, stored.HasAnomaly)
	assert.True(t, stored.RequiresAttention)
}

func TestResolveAnomaly_AdminOnly(t *testing.T) {
	order := shippedOrder("T1")
	env := setupRouter(newMemOrderRepo(order), nil)

	anomaly := &models.OrderAnomaly{
		OrderID:  order.ID,
		Type:     models.AnomalyTypeDelivery,
		Severity: models.SeverityHigh,
		Title:    "Carrier delivery failure",
	}
	assert.NoError(t, env.anomalies.Create(context.Background(), anomaly))

	body := `{"notes": "Contacted carrier", "action": "redelivery_scheduled"}`

	asCustomer := postJSON(env.router, "/anomalies/"+anomaly.ID.String()+"/resolve", body,
		map[string]string{"X-User-ID": uuid.NewString()})
	assert.Equal(t, http.StatusForbidden, asCustomer.Code)

	asAdmin := postJSON(env.router, "/anomalies/"+anomaly.ID.String()+"/resolve", body, adminHeaders())
	assert.Equal(t, http.StatusOK, asAdmin.Code)

	var resolved models.OrderAnomaly
	assert.NoError(t, json.Unmarshal(asAdmin.Body.Bytes(), &resolved))
	assert.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, "redelivery_scheduled", resolved.ResolutionAction)
}

func TestResolveAnomaly_Twice(t *testing.T) {
	order := shippedOrder("T1")
	env := setupRouter(newMemOrderRepo(order), nil)

	anomaly := &models.OrderAnomaly{OrderID: order.ID, Type: models.AnomalyTypeDelivery, Severity: models.SeverityHigh, Title: "Carrier delivery failure"}
	assert.NoError(t, env.anomalies.Create(context.Background(), anomaly))

	first := postJSON(env.router, "/anomalies/"+anomaly.ID.String()+"/resolve",
		`{"notes": "first"}`, adminHeaders())
	second := postJSON(env.router, "/anomalies/"+anomaly.ID.String()+"/resolve",
		`{"notes": "second"}`, adminHeaders())

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)

	var resolved models.OrderAnomaly
	assert.NoError(t, json.Unmarshal(second.Body.Bytes(), &resolved))
	assert.Equal(t, "first", resolved.ResolutionNotes)
}

func TestListAnomaliesByOrder(t *testing.T) {
	order := shippedOrder("T1")
	env := setupRouter(newMemOrderRepo(order), nil)

	assert.NoError(t, env.anomalies.Create(context.Background(), &models.OrderAnomaly{
		OrderID: order.ID, Type: models.AnomalyTypePayment, Severity: models.SeverityMedium, Title: "Amount mismatch",
	}))

	req := httptest.NewRequest(http.MethodGet, "/orders/"+order.ID.String()+"/anomalies", nil)
	req.Header.Set("X-User-ID", uuid.NewString())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Anomalies []models.OrderAnomaly `json:"anomalies"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Anomalies, 1)
	assert.Equal(t, models.AnomalyTypePayment, resp.Anomalies[0].Type)
}

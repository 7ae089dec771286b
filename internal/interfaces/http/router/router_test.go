package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/farmdesk/backend/internal/infrastructure/config"
	"github.com/farmdesk/backend/internal/interfaces/http/dto"
	"github.com/farmdesk/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(&config.Config{}, zap.NewNop(), Handlers{
		Health:        handler.NewHealthHandler(nil),
		Inventory:     handler.NewInventoryHandler(nil),
		PurchaseOrder: handler.NewPurchaseOrderHandler(nil),
	})
}

func TestUnknownRouteReturnsEnvelope(t *testing.T) {
	engine := newTestEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/no/such/route", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestLivenessMountedAtRoot(t *testing.T) {
	engine := newTestEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIRoutesRequireIdentity(t *testing.T) {
	engine := newTestEngine()

	for _, path := range []string{
		"/api/v1/inventory/items",
		"/api/v1/purchase-orders",
		"/api/v1/purchase-orders/number/PO20250800001",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

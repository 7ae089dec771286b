package handler

import (
	appinventory "github.com/farmdesk/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// InventoryHandler exposes inventory items and the movement ledger
type InventoryHandler struct {
	BaseHandler
	service *appinventory.Service
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(service *appinventory.Service) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// RegisterRoutes registers inventory routes on the given group
func (h *InventoryHandler) RegisterRoutes(group *gin.RouterGroup) {
	items := group.Group("/inventory/items")
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListItems)
		items.GET("/low-stock", h.GetLowStock)
		items.GET("/:id", h.GetItem)
		items.PUT("/:id/threshold", h.UpdateThreshold)
		items.GET("/:id/movements", h.GetMovementHistory)
	}
	group.POST("/inventory/movements", h.PostMovement)
}

// CreateItem handles POST /inventory/items
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req appinventory.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.CreateItem(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListItems handles GET /inventory/items
func (h *InventoryHandler) ListItems(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	resp, err := h.service.ListItems(c.Request.Context(), caller)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetItem handles GET /inventory/items/:id
func (h *InventoryHandler) GetItem(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	itemID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetItem(c.Request.Context(), caller, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetLowStock handles GET /inventory/items/low-stock?threshold=
func (h *InventoryHandler) GetLowStock(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var threshold *decimal.Decimal
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			h.BadRequest(c, "Invalid threshold parameter")
			return
		}
		threshold = &parsed
	}

	resp, err := h.service.GetLowStock(c.Request.Context(), caller, threshold)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateThreshold handles PUT /inventory/items/:id/threshold
func (h *InventoryHandler) UpdateThreshold(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	itemID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req appinventory.UpdateThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.UpdateThreshold(c.Request.Context(), caller, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetMovementHistory handles GET /inventory/items/:id/movements
func (h *InventoryHandler) GetMovementHistory(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	itemID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetMovementHistory(c.Request.Context(), caller, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// PostMovement handles POST /inventory/movements
func (h *InventoryHandler) PostMovement(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req appinventory.PostMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.PostMovement(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

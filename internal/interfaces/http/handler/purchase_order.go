package handler

import (
	apppurchasing "github.com/farmdesk/backend/internal/application/purchasing"
	"github.com/gin-gonic/gin"
)

// PurchaseOrderHandler exposes the purchase order lifecycle
type PurchaseOrderHandler struct {
	BaseHandler
	service *apppurchasing.Service
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(service *apppurchasing.Service) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{service: service}
}

// RegisterRoutes registers purchase order routes on the given group
func (h *PurchaseOrderHandler) RegisterRoutes(group *gin.RouterGroup) {
	orders := group.Group("/purchase-orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/number/:number", h.GetByNumber)
		orders.GET("/:id", h.Get)
		orders.DELETE("/:id", h.DeleteDraft)
		orders.POST("/:id/lines", h.AddLine)
		orders.PUT("/:id/lines/:lineId", h.UpdateLine)
		orders.DELETE("/:id/lines/:lineId", h.RemoveLine)
		orders.POST("/:id/send", h.Send)
		orders.POST("/:id/receive", h.Receive)
		orders.POST("/:id/cancel", h.Cancel)
	}
}

// Create handles POST /purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req apppurchasing.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var query apppurchasing.ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.List(c.Request.Context(), caller, query)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get handles GET /purchase-orders/:id
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	orderID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), caller, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByNumber handles GET /purchase-orders/number/:number
func (h *PurchaseOrderHandler) GetByNumber(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "order number is required")
		return
	}

	resp, err := h.service.GetByNumber(c.Request.Context(), caller, number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteDraft handles DELETE /purchase-orders/:id
func (h *PurchaseOrderHandler) DeleteDraft(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	orderID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteDraft(c.Request.Context(), caller, orderID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// AddLine handles POST /purchase-orders/:id/lines
func (h *PurchaseOrderHandler) AddLine(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	orderID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req apppurchasing.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.AddLine(c.Request.Context(), caller, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateLine handles PUT /purchase-orders/:id/lines/:lineId
func (h *PurchaseOrderHandler) UpdateLine(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	orderID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.pathUUID(c, "lineId")
	if !ok {
		return
	}

	var req apppurchasing.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.UpdateLine(c.Request.Context(), caller, orderID, lineID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveLine handles DELETE /purchase-orders/:id/lines/:lineId
func (h *PurchaseOrderHandler) RemoveLine(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	orderID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.pathUUID(c, "lineId")
	if !ok {
		return
	}

	resp, err := h.service.RemoveLine(c.Request.Context(), caller, orderID, lineID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Send handles POST /purchase-orders/:id/send
func (h *PurchaseOrderHandler) Send(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	orderID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Send(c.Request.Context(), caller, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Receive handles POST /purchase-orders/:id/receive
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	orderID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req apppurchasing.ReceiveOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	resp, err := h.service.Receive(c.Request.Context(), caller, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles POST /purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	orderID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req apppurchasing.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), caller, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

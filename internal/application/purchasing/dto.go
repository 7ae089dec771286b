package purchasing

import (
	"time"

	"github.com/farmdesk/backend/internal/domain/purchasing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest represents a request to create a draft purchase order
type CreateOrderRequest struct {
	SupplierID           uuid.UUID                `json:"supplier_id" binding:"required"`
	ExpectedDeliveryDate *time.Time               `json:"expected_delivery_date"`
	Lines                []CreateOrderLineInput   `json:"lines"`
	// OwnerID lets an admin create an order on behalf of an owner.
	// Ignored for non-admin callers.
	OwnerID *uuid.UUID `json:"owner_id"`
}

// CreateOrderLineInput represents one line in the create request
type CreateOrderLineInput struct {
	ItemID    uuid.UUID       `json:"item_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// AddLineRequest represents a request to add a line to a draft order
type AddLineRequest struct {
	ItemID    uuid.UUID       `json:"item_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// UpdateLineRequest represents a quantity change on a draft order line
type UpdateLineRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// ReceiveLineInput represents an explicit receipt quantity for one line
type ReceiveLineInput struct {
	LineID   uuid.UUID       `json:"line_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// ReceiveOrderRequest represents a receipt against a sent or partially
// received order. Empty lines means "receive everything still outstanding".
type ReceiveOrderRequest struct {
	Lines []ReceiveLineInput `json:"lines"`
}

// CancelOrderRequest represents a request to cancel an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ListOrdersQuery narrows the order list
type ListOrdersQuery struct {
	Status     string     `form:"status"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	Limit      int        `form:"limit"`
	Offset     int        `form:"offset"`
}

// OrderLineResponse represents one order line in API responses
type OrderLineResponse struct {
	ID                uuid.UUID       `json:"id"`
	InventoryItemID   uuid.UUID       `json:"inventory_item_id"`
	ItemName          string          `json:"item_name"`
	OrderedQuantity   decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity  decimal.Decimal `json:"received_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Amount            decimal.Decimal `json:"amount"`
}

// OrderResponse represents a purchase order in API responses
type OrderResponse struct {
	ID                   uuid.UUID            `json:"id"`
	OwnerID              uuid.UUID            `json:"owner_id"`
	OrderNumber          string               `json:"order_number"`
	SupplierID           uuid.UUID            `json:"supplier_id"`
	Status               string               `json:"status"`
	OrderDate            time.Time            `json:"order_date"`
	ExpectedDeliveryDate *time.Time           `json:"expected_delivery_date,omitempty"`
	Lines                []*OrderLineResponse `json:"lines"`
	TotalAmount          decimal.Decimal      `json:"total_amount"`
	SentAt               *time.Time           `json:"sent_at,omitempty"`
	ReceivedAt           *time.Time           `json:"received_at,omitempty"`
	CancelledAt          *time.Time           `json:"cancelled_at,omitempty"`
	CancelReason         string               `json:"cancel_reason,omitempty"`
	Version              int                  `json:"version"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

// OrderListResponse represents a page of purchase orders
type OrderListResponse struct {
	Orders []*OrderResponse `json:"orders"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(order *purchasing.PurchaseOrder) *OrderResponse {
	lines := make([]*OrderLineResponse, len(order.Lines))
	for i := range order.Lines {
		line := &order.Lines[i]
		lines[i] = &OrderLineResponse{
			ID:                line.ID,
			InventoryItemID:   line.InventoryItemID,
			ItemName:          line.ItemName,
			OrderedQuantity:   line.OrderedQuantity,
			ReceivedQuantity:  line.ReceivedQuantity,
			RemainingQuantity: line.RemainingQuantity(),
			UnitPrice:         line.UnitPrice,
			Amount:            line.Amount,
		}
	}

	return &OrderResponse{
		ID:                   order.ID,
		OwnerID:              order.OwnerID,
		OrderNumber:          order.OrderNumber,
		SupplierID:           order.SupplierID,
		Status:               order.Status.String(),
		OrderDate:            order.OrderDate,
		ExpectedDeliveryDate: order.ExpectedDeliveryDate,
		Lines:                lines,
		TotalAmount:          order.TotalAmount,
		SentAt:               order.SentAt,
		ReceivedAt:           order.ReceivedAt,
		CancelledAt:          order.CancelledAt,
		CancelReason:         order.CancelReason,
		Version:              order.Version,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders to response DTOs
func ToOrderResponses(orders []*purchasing.PurchaseOrder) []*OrderResponse {
	responses := make([]*OrderResponse, len(orders))
	for i, order := range orders {
		responses[i] = ToOrderResponse(order)
	}
	return responses
}

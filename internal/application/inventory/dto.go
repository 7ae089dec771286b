package inventory

import (
	"time"

	"github.com/farmdesk/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateItemRequest represents a request to create an inventory item
type CreateItemRequest struct {
	Name             string           `json:"name" binding:"required,min=1,max=200"`
	Category         string           `json:"category" binding:"required,min=1,max=100"`
	InitialQuantity  *decimal.Decimal `json:"initial_quantity"`
	ReorderThreshold *decimal.Decimal `json:"reorder_threshold"`
	// OwnerID lets an admin create an item on behalf of an owner.
	// Ignored for non-admin callers.
	OwnerID *uuid.UUID `json:"owner_id"`
}

// PostMovementRequest represents a manual ledger posting: sales,
// adjustments and corrections. Quantity is always positive; the
// direction comes from the movement type.
type PostMovementRequest struct {
	ItemID       uuid.UUID       `json:"item_id" binding:"required"`
	MovementType string          `json:"movement_type" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	ReferenceID  string          `json:"reference_id"`
	Notes        string          `json:"notes"`
}

// UpdateThresholdRequest represents a reorder threshold change
type UpdateThresholdRequest struct {
	ReorderThreshold decimal.Decimal `json:"reorder_threshold"`
}

// ItemResponse represents an inventory item in API responses
type ItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	OwnerID          uuid.UUID       `json:"owner_id"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	QuantityOnHand   decimal.Decimal `json:"quantity_on_hand"`
	ReorderThreshold decimal.Decimal `json:"reorder_threshold"`
	LowStock         bool            `json:"low_stock"`
	Version          int             `json:"version"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// MovementResponse represents one ledger entry in API responses
type MovementResponse struct {
	ID           uuid.UUID       `json:"id"`
	ItemID       uuid.UUID       `json:"item_id"`
	Delta        decimal.Decimal `json:"delta"`
	MovementType string          `json:"movement_type"`
	ReferenceID  string          `json:"reference_id,omitempty"`
	ActorID      uuid.UUID       `json:"actor_id"`
	Notes        string          `json:"notes,omitempty"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

// ToItemResponse converts a domain item to a response DTO
func ToItemResponse(item *inventory.InventoryItem) *ItemResponse {
	return &ItemResponse{
		ID:               item.ID,
		OwnerID:          item.OwnerID,
		Name:             item.Name,
		Category:         item.Category,
		QuantityOnHand:   item.QuantityOnHand,
		ReorderThreshold: item.ReorderThreshold,
		LowStock:         item.IsLowStock(nil),
		Version:          item.Version,
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
	}
}

// ToItemResponses converts a slice of domain items to response DTOs
func ToItemResponses(items []inventory.InventoryItem) []*ItemResponse {
	responses := make([]*ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return responses
}

// ToMovementResponse converts a domain movement to a response DTO
func ToMovementResponse(movement *inventory.Movement) *MovementResponse {
	return &MovementResponse{
		ID:           movement.ID,
		ItemID:       movement.InventoryItemID,
		Delta:        movement.Delta,
		MovementType: string(movement.MovementType),
		ReferenceID:  movement.ReferenceID,
		ActorID:      movement.ActorID,
		Notes:        movement.Notes,
		OccurredAt:   movement.OccurredAt,
	}
}

// ToMovementResponses converts a slice of domain movements to response DTOs
func ToMovementResponses(movements []inventory.Movement) []*MovementResponse {
	responses := make([]*MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses
}

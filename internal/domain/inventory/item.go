package inventory

import (
	"fmt"
	"time"

	"github.com/farmdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is the aggregate root for one stocked good on a farm.
// QuantityOnHand is a materialized cache over the movement ledger: it is never
// written directly, only through ApplyMovement inside the same transaction
// that appends the movement row.
type InventoryItem struct {
	shared.OwnedAggregateRoot
	Name             string          `gorm:"type:varchar(200);not null"`
	Category         string          `gorm:"type:varchar(100);index"`
	QuantityOnHand   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderThreshold decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates an inventory item with zero stock
func NewInventoryItem(ownerID uuid.UUID, name, category string, reorderThreshold decimal.Decimal) (*InventoryItem, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Owner ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Item name cannot be empty")
	}
	if reorderThreshold.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Reorder threshold cannot be negative")
	}

	return &InventoryItem{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               name,
		Category:           category,
		QuantityOnHand:     decimal.Zero,
		ReorderThreshold:   reorderThreshold,
	}, nil
}

// ApplyMovement adjusts the cached quantity by a signed delta.
// Non-correction movements may never drive the quantity negative; corrections
// may force any value so a miscounted ledger can be squared with reality.
func (i *InventoryItem) ApplyMovement(delta decimal.Decimal, movementType MovementType) error {
	if !movementType.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unknown movement type")
	}
	if delta.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "Movement delta cannot be zero")
	}
	if delta.Sign() != movementType.Direction() {
		return shared.NewDomainError("INVALID_QUANTITY", "Movement delta sign does not match movement type")
	}

	newQuantity := i.QuantityOnHand.Add(delta)
	if newQuantity.IsNegative() && !movementType.IsCorrection() {
		return shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Movement of %s would drive stock negative, only %s on hand",
				delta.String(), i.QuantityOnHand.String()))
	}

	i.QuantityOnHand = newQuantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// SetReorderThreshold updates the low-stock threshold for this item
func (i *InventoryItem) SetReorderThreshold(threshold decimal.Decimal) error {
	if threshold.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Reorder threshold cannot be negative")
	}

	i.ReorderThreshold = threshold
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// IsLowStock reports whether the item is at or below its threshold.
// A non-nil override replaces the item's own reorder threshold.
func (i *InventoryItem) IsLowStock(override *decimal.Decimal) bool {
	threshold := i.ReorderThreshold
	if override != nil {
		threshold = *override
	}
	return i.QuantityOnHand.LessThanOrEqual(threshold)
}

package inventory

import (
	"time"

	"github.com/farmdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies a stock movement
type MovementType string

const (
	// MovementTypePurchaseReceipt is stock received against a purchase order
	MovementTypePurchaseReceipt MovementType = "purchase_receipt"
	// MovementTypeSale is stock leaving through a sale
	MovementTypeSale MovementType = "sale"
	// MovementTypeAdjustmentIn is a manual positive adjustment
	MovementTypeAdjustmentIn MovementType = "adjustment_in"
	// MovementTypeAdjustmentOut is a manual negative adjustment
	MovementTypeAdjustmentOut MovementType = "adjustment_out"
	// MovementTypeCorrectionIn is an upward ledger correction; corrections may
	// cross the zero floor and are logged distinctly for audits
	MovementTypeCorrectionIn MovementType = "correction_in"
	// MovementTypeCorrectionOut is a downward ledger correction
	MovementTypeCorrectionOut MovementType = "correction_out"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypePurchaseReceipt,
		MovementTypeSale,
		MovementTypeAdjustmentIn,
		MovementTypeAdjustmentOut,
		MovementTypeCorrectionIn,
		MovementTypeCorrectionOut:
		return true
	}
	return false
}

// Direction returns +1 for types that add stock and -1 for types that remove it
func (t MovementType) Direction() int {
	switch t {
	case MovementTypePurchaseReceipt, MovementTypeAdjustmentIn, MovementTypeCorrectionIn:
		return 1
	case MovementTypeSale, MovementTypeAdjustmentOut, MovementTypeCorrectionOut:
		return -1
	}
	return 0
}

// IsCorrection returns true for correction movements, which are allowed to
// force the cached quantity past the zero floor
func (t MovementType) IsCorrection() bool {
	return t == MovementTypeCorrectionIn || t == MovementTypeCorrectionOut
}

// Movement is one immutable, signed quantity change applied to an inventory
// item. Movements form the ledger: the sum of all deltas for an item must
// always equal its cached quantity on hand. Rows are never updated or deleted;
// mistakes are fixed with correction movements.
type Movement struct {
	shared.BaseEntity
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;index:idx_inventory_movement_item"`
	OwnerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Delta           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MovementType    MovementType    `gorm:"type:varchar(30);not null;index"`
	ReferenceID     string          `gorm:"type:varchar(50);index"`
	ActorID         uuid.UUID       `gorm:"type:uuid;not null"`
	Notes           string          `gorm:"type:varchar(500)"`
	OccurredAt      time.Time       `gorm:"type:timestamptz;not null;index:idx_inventory_movement_item,priority:2,sort:desc"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "inventory_movements"
}

// NewMovement creates a ledger movement. The delta is signed and its sign must
// agree with the movement type's direction.
func NewMovement(itemID, ownerID uuid.UUID, delta decimal.Decimal, movementType MovementType, referenceID string, actorID uuid.UUID, notes string) (*Movement, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Inventory item ID cannot be empty")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Owner ID cannot be empty")
	}
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Actor ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown movement type")
	}
	if delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement delta cannot be zero")
	}
	if delta.Sign() != movementType.Direction() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement delta sign does not match movement type")
	}

	return &Movement{
		BaseEntity:      shared.NewBaseEntity(),
		InventoryItemID: itemID,
		OwnerID:         ownerID,
		Delta:           delta,
		MovementType:    movementType,
		ReferenceID:     referenceID,
		ActorID:         actorID,
		Notes:           notes,
		OccurredAt:      time.Now(),
	}, nil
}

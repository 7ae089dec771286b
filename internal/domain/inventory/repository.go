package inventory

import (
	"context"

	"github.com/farmdesk/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemRepository defines persistence operations for inventory items.
// Every read takes the caller's scope; an item outside the scope is reported
// as not found rather than forbidden.
type ItemRepository interface {
	// FindByID finds an item by ID within the caller's scope
	FindByID(ctx context.Context, scope identity.Scope, id uuid.UUID) (*InventoryItem, error)
	// FindByIDForUpdate finds an item and row-locks it for the duration of the
	// surrounding transaction, serializing concurrent quantity changes
	FindByIDForUpdate(ctx context.Context, scope identity.Scope, id uuid.UUID) (*InventoryItem, error)
	// FindAll returns all items within the caller's scope, ordered by name
	FindAll(ctx context.Context, scope identity.Scope) ([]InventoryItem, error)
	// FindLowStock returns items whose quantity on hand is at or below the
	// threshold; a nil threshold uses each item's own reorder threshold
	FindLowStock(ctx context.Context, scope identity.Scope, threshold *decimal.Decimal) ([]InventoryItem, error)
	// Create persists a new item
	Create(ctx context.Context, item *InventoryItem) error
	// SaveWithLock updates an item with an optimistic version check
	SaveWithLock(ctx context.Context, item *InventoryItem) error
}

// MovementRepository defines persistence operations for the movement ledger.
// The ledger is append-only: there is deliberately no update or delete.
type MovementRepository interface {
	// Append persists a new movement row
	Append(ctx context.Context, movement *Movement) error
	// FindByItem returns all movements for an item, newest first, within the
	// caller's scope
	FindByItem(ctx context.Context, scope identity.Scope, itemID uuid.UUID) ([]Movement, error)
	// SumDeltas returns the sum of all movement deltas for an item. Used to
	// audit the ledger-consistency invariant against the cached quantity.
	SumDeltas(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error)
}

package purchasing

import (
	"context"

	"github.com/farmdesk/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// ListFilter narrows List and Count results
type ListFilter struct {
	Status     *Status
	SupplierID *uuid.UUID
	Limit      int
	Offset     int
}

// Repository defines purchase order persistence.
// All reads are scope-filtered: an order outside the caller's scope
// behaves exactly like an order that does not exist.
type Repository interface {
	// FindByID loads an order with its lines within the given scope
	FindByID(ctx context.Context, scope identity.Scope, id uuid.UUID) (*PurchaseOrder, error)

	// FindByIDForUpdate loads an order with a row lock, serializing
	// concurrent receipts against the same order. Only meaningful
	// inside a transaction.
	FindByIDForUpdate(ctx context.Context, scope identity.Scope, id uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderNumber loads an order by its document number within the scope
	FindByOrderNumber(ctx context.Context, scope identity.Scope, orderNumber string) (*PurchaseOrder, error)

	// List returns orders within the scope, newest first
	List(ctx context.Context, scope identity.Scope, filter ListFilter) ([]*PurchaseOrder, error)

	// Count returns the number of orders within the scope matching the filter
	Count(ctx context.Context, scope identity.Scope, filter ListFilter) (int64, error)

	// Create inserts a new order with its lines
	Create(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock persists the order and its lines, failing with
	// CONCURRENT_MODIFICATION if the stored version moved underneath us
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// DeleteDraft hard-deletes a draft order and its lines
	DeleteDraft(ctx context.Context, order *PurchaseOrder) error
}

package persistence

import (
	"context"

	"github.com/farmdesk/backend/internal/domain/identity"
	"github.com/farmdesk/backend/internal/domain/inventory"
	"github.com/farmdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormItemRepository implements inventory.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds an item by ID within the caller's scope
func (r *GormItemRepository) FindByID(ctx context.Context, scope identity.Scope, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	query := scoped(r.db.WithContext(ctx), scope)
	if err := query.First(&item, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

// FindByIDForUpdate finds an item and locks its row until the surrounding
// transaction ends
func (r *GormItemRepository) FindByIDForUpdate(ctx context.Context, scope identity.Scope, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	query := scoped(r.db.WithContext(ctx), scope).
		Clauses(clause.Locking{Strength: "UPDATE"})
	if err := query.First(&item, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

// FindAll returns all items within the caller's scope, ordered by name
func (r *GormItemRepository) FindAll(ctx context.Context, scope identity.Scope) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	query := scoped(r.db.WithContext(ctx), scope).Order("name ASC")
	if err := query.Find(&items).Error; err != nil {
		return nil, translateError(err)
	}
	return items, nil
}

// FindLowStock returns items at or below the threshold. A nil threshold
// compares against each item's own reorder threshold.
func (r *GormItemRepository) FindLowStock(ctx context.Context, scope identity.Scope, threshold *decimal.Decimal) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	query := scoped(r.db.WithContext(ctx), scope)
	if threshold != nil {
		query = query.Where("quantity_on_hand <= ?", *threshold)
	} else {
		query = query.Where("quantity_on_hand <= reorder_threshold")
	}
	if err := query.Order("name ASC").Find(&items).Error; err != nil {
		return nil, translateError(err)
	}
	return items, nil
}

// Create persists a new item
func (r *GormItemRepository) Create(ctx context.Context, item *inventory.InventoryItem) error {
	return translateError(r.db.WithContext(ctx).Create(item).Error)
}

// SaveWithLock updates an item with an optimistic version check
func (r *GormItemRepository) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	result := r.db.WithContext(ctx).
		Model(item).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]interface{}{
			"quantity_on_hand":  item.QuantityOnHand,
			"reorder_threshold": item.ReorderThreshold,
			"version":           item.Version,
			"updated_at":        item.UpdatedAt,
		})

	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ inventory.ItemRepository = (*GormItemRepository)(nil)

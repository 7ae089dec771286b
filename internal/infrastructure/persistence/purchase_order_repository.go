package persistence

import (
	"context"

	"github.com/farmdesk/backend/internal/domain/identity"
	"github.com/farmdesk/backend/internal/domain/purchasing"
	"github.com/farmdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements purchasing.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID loads an order with its lines within the given scope
func (r *GormOrderRepository) FindByID(ctx context.Context, scope identity.Scope, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var order purchasing.PurchaseOrder
	query := scoped(r.db.WithContext(ctx), scope).Preload("Lines")
	if err := query.First(&order, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

// FindByIDForUpdate loads an order with a row lock on the order row.
// Lines are loaded after the lock is held, so two concurrent receipts for
// the same order serialize on the lock and the second sees fresh lines.
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, scope identity.Scope, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var order purchasing.PurchaseOrder
	query := scoped(r.db.WithContext(ctx), scope).
		Clauses(clause.Locking{Strength: "UPDATE"})
	if err := query.First(&order, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Order("created_at ASC").
		Find(&order.Lines).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

// FindByOrderNumber loads an order by its document number within the scope
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, scope identity.Scope, orderNumber string) (*purchasing.PurchaseOrder, error) {
	var order purchasing.PurchaseOrder
	query := scoped(r.db.WithContext(ctx), scope).Preload("Lines")
	if err := query.First(&order, "order_number = ?", orderNumber).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

// List returns orders within the scope, newest first
func (r *GormOrderRepository) List(ctx context.Context, scope identity.Scope, filter purchasing.ListFilter) ([]*purchasing.PurchaseOrder, error) {
	var orders []*purchasing.PurchaseOrder
	query := r.applyFilter(scoped(r.db.WithContext(ctx), scope), filter).
		Preload("Lines").
		Order("order_date DESC, created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, translateError(err)
	}
	return orders, nil
}

// Count returns the number of orders within the scope matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, scope identity.Scope, filter purchasing.ListFilter) (int64, error) {
	var count int64
	query := r.applyFilter(scoped(r.db.WithContext(ctx), scope), filter).
		Model(&purchasing.PurchaseOrder{})
	if err := query.Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// Create inserts a new order with its lines
func (r *GormOrderRepository) Create(ctx context.Context, order *purchasing.PurchaseOrder) error {
	return translateError(r.db.WithContext(ctx).Create(order).Error)
}

// SaveWithLock persists the order header with an optimistic version check
// and upserts the lines. Callers hold the row lock from FindByIDForUpdate,
// so the version check is a second line of defense against stale writes
// from paths that skipped the lock.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *purchasing.PurchaseOrder) error {
	result := r.db.WithContext(ctx).
		Model(order).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]interface{}{
			"status":                 order.Status,
			"total_amount":           order.TotalAmount,
			"expected_delivery_date": order.ExpectedDeliveryDate,
			"sent_at":                order.SentAt,
			"received_at":            order.ReceivedAt,
			"cancelled_at":           order.CancelledAt,
			"cancel_reason":          order.CancelReason,
			"version":                order.Version,
			"updated_at":             order.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	// replace lines wholesale; draft edits remove rows, receipts update them
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Delete(&purchasing.Line{}).Error; err != nil {
		return translateError(err)
	}
	if len(order.Lines) > 0 {
		if err := r.db.WithContext(ctx).Create(&order.Lines).Error; err != nil {
			return translateError(err)
		}
	}
	return nil
}

// DeleteDraft hard-deletes a draft order and its lines
func (r *GormOrderRepository) DeleteDraft(ctx context.Context, order *purchasing.PurchaseOrder) error {
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Delete(&purchasing.Line{}).Error; err != nil {
		return translateError(err)
	}
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", order.ID, purchasing.StatusDraft).
		Delete(&purchasing.PurchaseOrder{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter narrows a query by the optional list filter fields
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter purchasing.ListFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	return query
}

var _ purchasing.Repository = (*GormOrderRepository)(nil)

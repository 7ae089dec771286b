package persistence

import (
	"context"

	"github.com/farmdesk/backend/internal/domain/identity"
	"github.com/farmdesk/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormMovementRepository implements inventory.MovementRepository using GORM.
// The ledger is append-only, so this repository exposes no update or delete.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Append persists a new movement row
func (r *GormMovementRepository) Append(ctx context.Context, movement *inventory.Movement) error {
	return translateError(r.db.WithContext(ctx).Create(movement).Error)
}

// FindByItem returns all movements for an item, newest first, within the scope
func (r *GormMovementRepository) FindByItem(ctx context.Context, scope identity.Scope, itemID uuid.UUID) ([]inventory.Movement, error) {
	var movements []inventory.Movement
	query := scoped(r.db.WithContext(ctx), scope).
		Where("inventory_item_id = ?", itemID).
		Order("occurred_at DESC, created_at DESC")
	if err := query.Find(&movements).Error; err != nil {
		return nil, translateError(err)
	}
	return movements, nil
}

// SumDeltas returns the sum of all movement deltas for an item
func (r *GormMovementRepository) SumDeltas(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&inventory.Movement{}).
		Select("SUM(delta)").
		Where("inventory_item_id = ?", itemID).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, translateError(err)
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

var _ inventory.MovementRepository = (*GormMovementRepository)(nil)

package persistence

import (
	"context"

	appinventory "github.com/farmdesk/backend/internal/application/inventory"
	apppurchasing "github.com/farmdesk/backend/internal/application/purchasing"
	"github.com/farmdesk/backend/internal/domain/inventory"
	"github.com/farmdesk/backend/internal/domain/numbering"
	"github.com/farmdesk/backend/internal/domain/purchasing"
	"gorm.io/gorm"
)

// GormTransactionScope implements the application transaction scopes using
// GORM transactions. One instance serves both the inventory and the
// purchasing workflows; every repository handed to the callback runs on
// the same *gorm.DB transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// Purchasing adapts the scope for the purchasing workflow
func (s *GormTransactionScope) Purchasing() apppurchasing.TransactionScope {
	return &gormPurchasingScope{db: s.db}
}

type gormPurchasingScope struct {
	db *gorm.DB
}

// Execute runs the given function within a database transaction
func (s *gormPurchasingScope) Execute(ctx context.Context, fn func(repos apppurchasing.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides transaction-bound repositories.
// It satisfies both workflows' repository bundles.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Items returns the inventory item repository scoped to the current transaction
func (r *gormTransactionalRepositories) Items() inventory.ItemRepository {
	return NewGormItemRepository(r.tx)
}

// Movements returns the movement ledger repository scoped to the current transaction
func (r *gormTransactionalRepositories) Movements() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// Orders returns the purchase order repository scoped to the current transaction
func (r *gormTransactionalRepositories) Orders() purchasing.Repository {
	return NewGormOrderRepository(r.tx)
}

// Numbers returns the document number allocator scoped to the current transaction
func (r *gormTransactionalRepositories) Numbers() numbering.Allocator {
	return NewGormSequenceAllocator(r.tx)
}

var _ appinventory.TransactionScope = (*GormTransactionScope)(nil)
var _ appinventory.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
var _ apppurchasing.TransactionScope = (*gormPurchasingScope)(nil)
var _ apppurchasing.TransactionalRepositories = (*gormTransactionalRepositories)(nil)

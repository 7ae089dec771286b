package inventory

import (
	"context"

	"github.com/farmdesk/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to inventory repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the inventory repositories
// within a transaction. Both repositories share the same underlying
// database transaction, which is what keeps the ledger-consistency
// invariant intact: a movement row and the cached quantity it changes are
// always written together or not at all.
type TransactionalRepositories interface {
	// Items returns the inventory item repository scoped to the current transaction
	Items() inventory.ItemRepository
	// Movements returns the movement ledger repository scoped to the current transaction
	Movements() inventory.MovementRepository
}

// NoOpTransactionScope is a transaction scope without a real transaction.
// Useful in tests that exercise service logic against mock repositories.
type NoOpTransactionScope struct {
	items     inventory.ItemRepository
	movements inventory.MovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(items inventory.ItemRepository, movements inventory.MovementRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{items: items, movements: movements}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Items returns the inventory item repository
func (s *NoOpTransactionScope) Items() inventory.ItemRepository {
	return s.items
}

// Movements returns the movement ledger repository
func (s *NoOpTransactionScope) Movements() inventory.MovementRepository {
	return s.movements
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

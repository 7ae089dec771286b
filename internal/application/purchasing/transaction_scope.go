package purchasing

import (
	"context"

	"github.com/farmdesk/backend/internal/domain/inventory"
	"github.com/farmdesk/backend/internal/domain/numbering"
	"github.com/farmdesk/backend/internal/domain/purchasing"
)

// TransactionScope provides transactional access to the repositories a
// purchase order workflow touches. Receiving is the reason this scope
// spans aggregates: the order lines, the ledger movements and the cached
// item quantities must change in one transaction or not at all.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a
// transaction. All repositories share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// Orders returns the purchase order repository scoped to the current transaction
	Orders() purchasing.Repository
	// Items returns the inventory item repository scoped to the current transaction
	Items() inventory.ItemRepository
	// Movements returns the movement ledger repository scoped to the current transaction
	Movements() inventory.MovementRepository
	// Numbers returns the document number allocator scoped to the current
	// transaction; allocation row-locks the sequence so numbers never repeat
	Numbers() numbering.Allocator
}

// NoOpTransactionScope is a transaction scope without a real transaction,
// for service tests against mock repositories.
type NoOpTransactionScope struct {
	orders    purchasing.Repository
	items     inventory.ItemRepository
	movements inventory.MovementRepository
	numbers   numbering.Allocator
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	orders purchasing.Repository,
	items inventory.ItemRepository,
	movements inventory.MovementRepository,
	numbers numbering.Allocator,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orders:    orders,
		items:     items,
		movements: movements,
		numbers:   numbers,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Orders returns the purchase order repository
func (s *NoOpTransactionScope) Orders() purchasing.Repository {
	return s.orders
}

// Items returns the inventory item repository
func (s *NoOpTransactionScope) Items() inventory.ItemRepository {
	return s.items
}

// Movements returns the movement ledger repository
func (s *NoOpTransactionScope) Movements() inventory.MovementRepository {
	return s.movements
}

// Numbers returns the document number allocator
func (s *NoOpTransactionScope) Numbers() numbering.Allocator {
	return s.numbers
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

package integration

import (
	"context"
	"sync"
	"testing"

	appinventory "github.com/farmdesk/backend/internal/application/inventory"
	apppurchasing "github.com/farmdesk/backend/internal/application/purchasing"
	"github.com/farmdesk/backend/internal/domain/identity"
	"github.com/farmdesk/backend/internal/domain/shared"
	"github.com/farmdesk/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stack struct {
	inventory  *appinventory.Service
	purchasing *apppurchasing.Service
	movements  *persistence.GormMovementRepository
}

func newStack(tdb *TestDB) *stack {
	itemRepo := persistence.NewGormItemRepository(tdb.DB)
	movementRepo := persistence.NewGormMovementRepository(tdb.DB)
	orderRepo := persistence.NewGormOrderRepository(tdb.DB)
	txScope := persistence.NewGormTransactionScope(tdb.DB)

	return &stack{
		inventory:  appinventory.NewService(itemRepo, movementRepo, txScope, zap.NewNop()),
		purchasing: apppurchasing.NewService(orderRepo, txScope.Purchasing(), zap.NewNop()),
		movements:  movementRepo,
	}
}

func createItem(t *testing.T, s *stack, caller identity.Caller, name string, initial int64) *appinventory.ItemResponse {
	t.Helper()
	var initialQty *decimal.Decimal
	if initial > 0 {
		qty := decimal.NewFromInt(initial)
		initialQty = &qty
	}
	item, err := s.inventory.CreateItem(context.Background(), caller, appinventory.CreateItemRequest{
		Name:            name,
		Category:        "feed",
		InitialQuantity: initialQty,
	})
	require.NoError(t, err)
	return item
}

func createSentOrder(t *testing.T, s *stack, caller identity.Caller, itemID uuid.UUID, qty int64) *apppurchasing.OrderResponse {
	t.Helper()
	order, err := s.purchasing.Create(context.Background(), caller, apppurchasing.CreateOrderRequest{
		SupplierID: uuid.New(),
		Lines: []apppurchasing.CreateOrderLineInput{
			{ItemID: itemID, Quantity: decimal.NewFromInt(qty), UnitPrice: decimal.RequireFromString("18.50")},
		},
	})
	require.NoError(t, err)
	sent, err := s.purchasing.Send(context.Background(), caller, order.ID)
	require.NoError(t, err)
	return sent
}

func TestReceivingFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	s := newStack(tdb)
	ctx := context.Background()

	t.Run("full lifecycle keeps ledger consistent", func(t *testing.T) {
		tdb.CleanTables()
		caller := identity.Caller{UserID: uuid.New(), Role: identity.RoleOwner}

		item := createItem(t, s, caller, "Layer pellets", 0)
		order := createSentOrder(t, s, caller, item.ID, 10)
		assert.Regexp(t, `^PO\d{11}$`, order.OrderNumber)

		// partial receipt
		partial, err := s.purchasing.Receive(ctx, caller, order.ID, apppurchasing.ReceiveOrderRequest{
			Lines: []apppurchasing.ReceiveLineInput{
				{LineID: order.Lines[0].ID, Quantity: decimal.NewFromInt(4)},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "partial", partial.Status)

		// remainder via the default full receipt
		received, err := s.purchasing.Receive(ctx, caller, order.ID, apppurchasing.ReceiveOrderRequest{})
		require.NoError(t, err)
		assert.Equal(t, "received", received.Status)

		got, err := s.inventory.GetItem(ctx, caller, item.ID)
		require.NoError(t, err)
		assert.True(t, got.QuantityOnHand.Equal(decimal.NewFromInt(10)))

		// ledger sum must equal the cached quantity
		sum, err := s.movements.SumDeltas(ctx, item.ID)
		require.NoError(t, err)
		assert.True(t, sum.Equal(got.QuantityOnHand))

		// every receipt references the order number
		history, err := s.inventory.GetMovementHistory(ctx, caller, item.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		for _, mv := range history {
			assert.Equal(t, "purchase_receipt", mv.MovementType)
			assert.Equal(t, order.OrderNumber, mv.ReferenceID)
		}

		// the order is now invisible to further receives
		_, err = s.purchasing.Receive(ctx, caller, order.ID, apppurchasing.ReceiveOrderRequest{})
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("over-receipt rolls back completely", func(t *testing.T) {
		tdb.CleanTables()
		caller := identity.Caller{UserID: uuid.New(), Role: identity.RoleOwner}

		item := createItem(t, s, caller, "Layer pellets", 0)
		order := createSentOrder(t, s, caller, item.ID, 10)

		_, err := s.purchasing.Receive(ctx, caller, order.ID, apppurchasing.ReceiveOrderRequest{
			Lines: []apppurchasing.ReceiveLineInput{
				{LineID: order.Lines[0].ID, Quantity: decimal.NewFromInt(11)},
			},
		})
		require.Error(t, err)

		// nothing changed: order still sent, no stock, empty ledger
		after, err := s.purchasing.Get(ctx, caller, order.ID)
		require.NoError(t, err)
		assert.Equal(t, "sent", after.Status)
		assert.True(t, after.Lines[0].ReceivedQuantity.IsZero())

		got, err := s.inventory.GetItem(ctx, caller, item.ID)
		require.NoError(t, err)
		assert.True(t, got.QuantityOnHand.IsZero())

		history, err := s.inventory.GetMovementHistory(ctx, caller, item.ID)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("concurrent receives never over-receive", func(t *testing.T) {
		tdb.CleanTables()
		caller := identity.Caller{UserID: uuid.New(), Role: identity.RoleOwner}

		item := createItem(t, s, caller, "Layer pellets", 0)
		order := createSentOrder(t, s, caller, item.ID, 10)
		lineID := order.Lines[0].ID

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				_, errs[idx] = s.purchasing.Receive(ctx, caller, order.ID, apppurchasing.ReceiveOrderRequest{
					Lines: []apppurchasing.ReceiveLineInput{
						{LineID: lineID, Quantity: decimal.NewFromInt(7)},
					},
				})
			}(i)
		}
		wg.Wait()

		// the row lock serializes the two receipts; exactly one succeeds,
		// the other exceeds the remaining quantity
		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			}
		}
		assert.Equal(t, 1, succeeded)

		after, err := s.purchasing.Get(ctx, caller, order.ID)
		require.NoError(t, err)
		assert.True(t, after.Lines[0].ReceivedQuantity.Equal(decimal.NewFromInt(7)))

		got, err := s.inventory.GetItem(ctx, caller, item.ID)
		require.NoError(t, err)
		assert.True(t, got.QuantityOnHand.Equal(decimal.NewFromInt(7)))

		sum, err := s.movements.SumDeltas(ctx, item.ID)
		require.NoError(t, err)
		assert.True(t, sum.Equal(got.QuantityOnHand))
	})
}

func TestTenantIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	s := newStack(tdb)
	ctx := context.Background()

	owner := identity.Caller{UserID: uuid.New(), Role: identity.RoleOwner}
	other := identity.Caller{UserID: uuid.New(), Role: identity.RoleOwner}
	admin := identity.Caller{UserID: uuid.New(), Role: identity.RoleAdmin}

	item := createItem(t, s, owner, "Layer pellets", 20)
	order := createSentOrder(t, s, owner, item.ID, 5)

	t.Run("other owner cannot see or receive the order", func(t *testing.T) {
		_, err := s.purchasing.Get(ctx, other, order.ID)
		assert.Equal(t, shared.ErrNotFound, err)

		_, err = s.purchasing.Receive(ctx, other, order.ID, apppurchasing.ReceiveOrderRequest{})
		assert.Equal(t, shared.ErrNotFound, err)

		_, err = s.inventory.GetItem(ctx, other, item.ID)
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("admin sees across owners", func(t *testing.T) {
		got, err := s.purchasing.Get(ctx, admin, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)

		items, err := s.inventory.ListItems(ctx, admin)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("own records remain visible", func(t *testing.T) {
		got, err := s.inventory.GetItem(ctx, owner, item.ID)
		require.NoError(t, err)
		assert.True(t, got.QuantityOnHand.Equal(decimal.NewFromInt(20)))
	})
}

func TestDocumentNumbering(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	s := newStack(tdb)
	ctx := context.Background()

	caller := identity.Caller{UserID: uuid.New(), Role: identity.RoleOwner}
	item := createItem(t, s, caller, "Layer pellets", 0)

	first, err := s.purchasing.Create(ctx, caller, apppurchasing.CreateOrderRequest{
		SupplierID: uuid.New(),
		Lines: []apppurchasing.CreateOrderLineInput{
			{ItemID: item.ID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)

	second, err := s.purchasing.Create(ctx, caller, apppurchasing.CreateOrderRequest{
		SupplierID: uuid.New(),
		Lines: []apppurchasing.CreateOrderLineInput{
			{ItemID: item.ID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)

	assert.Regexp(t, `^PO\d{11}$`, first.OrderNumber)
	assert.Regexp(t, `^PO\d{11}$`, second.OrderNumber)
	assert.NotEqual(t, first.OrderNumber, second.OrderNumber)
	assert.Greater(t, second.OrderNumber, first.OrderNumber)
}

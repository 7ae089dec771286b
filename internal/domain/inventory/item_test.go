package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestItem(t *testing.T) *InventoryItem {
	t.Helper()
	item, err := NewInventoryItem(uuid.New(), "Layer Feed 25kg", "feed", decimal.NewFromInt(5))
	require.NoError(t, err)
	return item
}

func TestNewInventoryItem(t *testing.T) {
	t.Run("creates item with zero stock", func(t *testing.T) {
		ownerID := uuid.New()
		item, err := NewInventoryItem(ownerID, "Fencing Wire", "supplies", decimal.NewFromInt(2))

		require.NoError(t, err)
		assert.Equal(t, ownerID, item.OwnerID)
		assert.True(t, item.QuantityOnHand.IsZero())
		assert.Equal(t, 1, item.Version)
	})

	t.Run("rejects empty owner", func(t *testing.T) {
		_, err := NewInventoryItem(uuid.Nil, "Fencing Wire", "supplies", decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewInventoryItem(uuid.New(), "", "supplies", decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects negative threshold", func(t *testing.T) {
		_, err := NewInventoryItem(uuid.New(), "Fencing Wire", "supplies", decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestInventoryItem_ApplyMovement(t *testing.T) {
	t.Run("increases stock on receipt", func(t *testing.T) {
		item := createTestItem(t)

		err := item.ApplyMovement(decimal.NewFromInt(10), MovementTypePurchaseReceipt)

		require.NoError(t, err)
		assert.True(t, item.QuantityOnHand.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, 2, item.Version)
	})

	t.Run("decreases stock on sale", func(t *testing.T) {
		item := createTestItem(t)
		require.NoError(t, item.ApplyMovement(decimal.NewFromInt(10), MovementTypePurchaseReceipt))

		err := item.ApplyMovement(decimal.NewFromInt(-4), MovementTypeSale)

		require.NoError(t, err)
		assert.True(t, item.QuantityOnHand.Equal(decimal.NewFromInt(6)))
	})

	t.Run("rejects movement that would drive stock negative", func(t *testing.T) {
		item := createTestItem(t)
		require.NoError(t, item.ApplyMovement(decimal.NewFromInt(10), MovementTypePurchaseReceipt))

		err := item.ApplyMovement(decimal.NewFromInt(-100), MovementTypeSale)

		assert.Error(t, err)
		assert.True(t, item.QuantityOnHand.Equal(decimal.NewFromInt(10)), "quantity must be untouched after a rejected movement")
	})

	t.Run("correction may cross the zero floor", func(t *testing.T) {
		item := createTestItem(t)
		require.NoError(t, item.ApplyMovement(decimal.NewFromInt(3), MovementTypePurchaseReceipt))

		err := item.ApplyMovement(decimal.NewFromInt(-5), MovementTypeCorrectionOut)

		require.NoError(t, err)
		assert.True(t, item.QuantityOnHand.Equal(decimal.NewFromInt(-2)))
	})

	t.Run("rejects zero delta", func(t *testing.T) {
		item := createTestItem(t)
		err := item.ApplyMovement(decimal.Zero, MovementTypeSale)
		assert.Error(t, err)
	})

	t.Run("rejects sign mismatch with type", func(t *testing.T) {
		item := createTestItem(t)
		err := item.ApplyMovement(decimal.NewFromInt(5), MovementTypeSale)
		assert.Error(t, err)
	})
}

func TestInventoryItem_IsLowStock(t *testing.T) {
	item := createTestItem(t) // threshold 5
	require.NoError(t, item.ApplyMovement(decimal.NewFromInt(5), MovementTypePurchaseReceipt))

	t.Run("at own threshold", func(t *testing.T) {
		assert.True(t, item.IsLowStock(nil))
	})

	t.Run("above own threshold", func(t *testing.T) {
		require.NoError(t, item.ApplyMovement(decimal.NewFromInt(1), MovementTypeAdjustmentIn))
		assert.False(t, item.IsLowStock(nil))
	})

	t.Run("override threshold", func(t *testing.T) {
		override := decimal.NewFromInt(10)
		assert.True(t, item.IsLowStock(&override))
	})
}

func TestInventoryItem_SetReorderThreshold(t *testing.T) {
	item := createTestItem(t)

	require.NoError(t, item.SetReorderThreshold(decimal.NewFromInt(8)))
	assert.True(t, item.ReorderThreshold.Equal(decimal.NewFromInt(8)))

	assert.Error(t, item.SetReorderThreshold(decimal.NewFromInt(-1)))
}

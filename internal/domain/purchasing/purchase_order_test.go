package purchasing

import (
	"testing"
	"time"

	"github.com/farmdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraftOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	order, err := NewPurchaseOrder(uuid.New(), "PO20250800001", uuid.New(), nil)
	require.NoError(t, err)
	return order
}

func addTestLine(t *testing.T, order *PurchaseOrder, qty string) *Line {
	t.Helper()
	line, err := order.AddLine(uuid.New(), "Chicken feed 25kg", decimal.RequireFromString(qty), decimal.RequireFromString("18.50"))
	require.NoError(t, err)
	return line
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusDraft, StatusSent, true},
		{StatusDraft, StatusCancelled, true},
		{StatusDraft, StatusReceived, false},
		{StatusDraft, StatusPartial, false},
		{StatusSent, StatusPartial, true},
		{StatusSent, StatusReceived, true},
		{StatusSent, StatusCancelled, true},
		{StatusSent, StatusDraft, false},
		{StatusPartial, StatusPartial, true},
		{StatusPartial, StatusReceived, true},
		{StatusPartial, StatusCancelled, true},
		{StatusReceived, StatusCancelled, false},
		{StatusCancelled, StatusSent, false},
		{StatusCancelled, StatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusCanReceive(t *testing.T) {
	assert.True(t, StatusSent.CanReceive())
	assert.True(t, StatusPartial.CanReceive())
	assert.False(t, StatusDraft.CanReceive())
	assert.False(t, StatusReceived.CanReceive())
	assert.False(t, StatusCancelled.CanReceive())
}

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("creates draft with zero total", func(t *testing.T) {
		order := newDraftOrder(t)
		assert.Equal(t, StatusDraft, order.Status)
		assert.True(t, order.TotalAmount.IsZero())
		assert.Empty(t, order.Lines)
		assert.Equal(t, 1, order.Version)
	})

	t.Run("rejects empty order number", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "", uuid.New(), nil)
		require.Error(t, err)
		assert.Equal(t, "INVALID_INPUT", err.(*shared.DomainError).Code)
	})

	t.Run("rejects nil supplier", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "PO20250800001", uuid.Nil, nil)
		assert.Error(t, err)
	})
}

func TestPurchaseOrderAddLine(t *testing.T) {
	t.Run("adds line and recalculates total", func(t *testing.T) {
		order := newDraftOrder(t)
		addTestLine(t, order, "10")

		assert.Len(t, order.Lines, 1)
		assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("185.00")))
		assert.Equal(t, 2, order.Version)
	})

	t.Run("rejects duplicate item", func(t *testing.T) {
		order := newDraftOrder(t)
		itemID := uuid.New()
		_, err := order.AddLine(itemID, "Feed", decimal.NewFromInt(5), decimal.NewFromInt(10))
		require.NoError(t, err)

		_, err = order.AddLine(itemID, "Feed", decimal.NewFromInt(3), decimal.NewFromInt(10))
		require.Error(t, err)
		assert.Equal(t, "ALREADY_EXISTS", err.(*shared.DomainError).Code)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		order := newDraftOrder(t)
		_, err := order.AddLine(uuid.New(), "Feed", decimal.Zero, decimal.NewFromInt(10))
		require.Error(t, err)
		assert.Equal(t, "INVALID_QUANTITY", err.(*shared.DomainError).Code)
	})

	t.Run("rejects adding to sent order", func(t *testing.T) {
		order := newDraftOrder(t)
		addTestLine(t, order, "10")
		require.NoError(t, order.Send())

		_, err := order.AddLine(uuid.New(), "Feed", decimal.NewFromInt(5), decimal.NewFromInt(10))
		require.Error(t, err)
		assert.Equal(t, "INVALID_STATE_TRANSITION", err.(*shared.DomainError).Code)
	})
}

func TestPurchaseOrderUpdateLineQuantity(t *testing.T) {
	t.Run("updates quantity and total", func(t *testing.T) {
		order := newDraftOrder(t)
		line := addTestLine(t, order, "10")

		err := order.UpdateLineQuantity(line.ID, decimal.NewFromInt(4))
		require.NoError(t, err)
		assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("74.00")))
	})

	t.Run("rejects on sent order", func(t *testing.T) {
		order := newDraftOrder(t)
		line := addTestLine(t, order, "10")
		require.NoError(t, order.Send())

		err := order.UpdateLineQuantity(line.ID, decimal.NewFromInt(4))
		assert.Error(t, err)
	})

	t.Run("unknown line is not found", func(t *testing.T) {
		order := newDraftOrder(t)
		err := order.UpdateLineQuantity(uuid.New(), decimal.NewFromInt(4))
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", err.(*shared.DomainError).Code)
	})
}

func TestPurchaseOrderRemoveLine(t *testing.T) {
	order := newDraftOrder(t)
	line := addTestLine(t, order, "10")
	addTestLine(t, order, "2")

	require.NoError(t, order.RemoveLine(line.ID))
	assert.Len(t, order.Lines, 1)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("37.00")))
}

func TestPurchaseOrderSend(t *testing.T) {
	t.Run("sends draft with lines", func(t *testing.T) {
		order := newDraftOrder(t)
		addTestLine(t, order, "10")

		require.NoError(t, order.Send())
		assert.Equal(t, StatusSent, order.Status)
		assert.NotNil(t, order.SentAt)
	})

	t.Run("rejects empty order", func(t *testing.T) {
		order := newDraftOrder(t)
		err := order.Send()
		require.Error(t, err)
		assert.Equal(t, "INVALID_STATE_TRANSITION", err.(*shared.DomainError).Code)
	})

	t.Run("rejects double send", func(t *testing.T) {
		order := newDraftOrder(t)
		addTestLine(t, order, "10")
		require.NoError(t, order.Send())
		assert.Error(t, order.Send())
	})
}

func TestPurchaseOrderReceive(t *testing.T) {
	t.Run("partial receipt sets partial status", func(t *testing.T) {
		order := newDraftOrder(t)
		line := addTestLine(t, order, "10")
		require.NoError(t, order.Send())

		applied, err := order.Receive([]ReceiveLine{{LineID: line.ID, Quantity: decimal.NewFromInt(4)}})
		require.NoError(t, err)
		require.Len(t, applied, 1)
		assert.True(t, applied[0].Quantity.Equal(decimal.NewFromInt(4)))
		assert.Equal(t, StatusPartial, order.Status)
		assert.Nil(t, order.ReceivedAt)
		assert.True(t, order.GetLine(line.ID).RemainingQuantity().Equal(decimal.NewFromInt(6)))
	})

	t.Run("completing every line sets received", func(t *testing.T) {
		order := newDraftOrder(t)
		first := addTestLine(t, order, "10")
		second := addTestLine(t, order, "5")
		require.NoError(t, order.Send())

		_, err := order.Receive([]ReceiveLine{{LineID: first.ID, Quantity: decimal.NewFromInt(10)}})
		require.NoError(t, err)
		assert.Equal(t, StatusPartial, order.Status)

		_, err = order.Receive([]ReceiveLine{{LineID: second.ID, Quantity: decimal.NewFromInt(5)}})
		require.NoError(t, err)
		assert.Equal(t, StatusReceived, order.Status)
		assert.NotNil(t, order.ReceivedAt)
	})

	t.Run("over-receipt rejected and order untouched", func(t *testing.T) {
		order := newDraftOrder(t)
		line := addTestLine(t, order, "10")
		require.NoError(t, order.Send())
		_, err := order.Receive([]ReceiveLine{{LineID: line.ID, Quantity: decimal.NewFromInt(4)}})
		require.NoError(t, err)

		_, err = order.Receive([]ReceiveLine{{LineID: line.ID, Quantity: decimal.NewFromInt(7)}})
		require.Error(t, err)
		assert.Equal(t, "INVALID_QUANTITY", err.(*shared.DomainError).Code)
	})

	t.Run("receiving on draft rejected", func(t *testing.T) {
		order := newDraftOrder(t)
		line := addTestLine(t, order, "10")

		_, err := order.Receive([]ReceiveLine{{LineID: line.ID, Quantity: decimal.NewFromInt(1)}})
		require.Error(t, err)
		assert.Equal(t, "INVALID_STATE_TRANSITION", err.(*shared.DomainError).Code)
	})

	t.Run("unknown line is not found", func(t *testing.T) {
		order := newDraftOrder(t)
		addTestLine(t, order, "10")
		require.NoError(t, order.Send())

		_, err := order.Receive([]ReceiveLine{{LineID: uuid.New(), Quantity: decimal.NewFromInt(1)}})
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", err.(*shared.DomainError).Code)
	})

	t.Run("empty receive lines rejected", func(t *testing.T) {
		order := newDraftOrder(t)
		addTestLine(t, order, "10")
		require.NoError(t, order.Send())

		_, err := order.Receive(nil)
		assert.Error(t, err)
	})
}

func TestPurchaseOrderRemainingReceiveLines(t *testing.T) {
	order := newDraftOrder(t)
	first := addTestLine(t, order, "10")
	second := addTestLine(t, order, "5")
	require.NoError(t, order.Send())

	_, err := order.Receive([]ReceiveLine{{LineID: first.ID, Quantity: decimal.NewFromInt(10)}})
	require.NoError(t, err)

	remaining := order.RemainingReceiveLines()
	require.Len(t, remaining, 1)
	assert.Equal(t, second.ID, remaining[0].LineID)
	assert.True(t, remaining[0].Quantity.Equal(decimal.NewFromInt(5)))
}

func TestPurchaseOrderCancel(t *testing.T) {
	t.Run("cancels draft", func(t *testing.T) {
		order := newDraftOrder(t)
		require.NoError(t, order.Cancel("supplier out of business"))
		assert.Equal(t, StatusCancelled, order.Status)
		assert.NotNil(t, order.CancelledAt)
		assert.Equal(t, "supplier out of business", order.CancelReason)
	})

	t.Run("cancels after partial receipt", func(t *testing.T) {
		order := newDraftOrder(t)
		line := addTestLine(t, order, "10")
		require.NoError(t, order.Send())
		_, err := order.Receive([]ReceiveLine{{LineID: line.ID, Quantity: decimal.NewFromInt(4)}})
		require.NoError(t, err)

		require.NoError(t, order.Cancel("remainder not coming"))
		assert.Equal(t, StatusCancelled, order.Status)
		// already received quantity stays on record
		assert.True(t, order.GetLine(line.ID).ReceivedQuantity.Equal(decimal.NewFromInt(4)))
	})

	t.Run("rejects cancelling received order", func(t *testing.T) {
		order := newDraftOrder(t)
		line := addTestLine(t, order, "10")
		require.NoError(t, order.Send())
		_, err := order.Receive([]ReceiveLine{{LineID: line.ID, Quantity: decimal.NewFromInt(10)}})
		require.NoError(t, err)

		err = order.Cancel("too late")
		require.Error(t, err)
		assert.Equal(t, "INVALID_STATE_TRANSITION", err.(*shared.DomainError).Code)
	})
}

func TestPurchaseOrderExpectedDelivery(t *testing.T) {
	due := time.Now().Add(72 * time.Hour)
	order, err := NewPurchaseOrder(uuid.New(), "PO20250800002", uuid.New(), &due)
	require.NoError(t, err)
	require.NotNil(t, order.ExpectedDeliveryDate)
	assert.WithinDuration(t, due, *order.ExpectedDeliveryDate, time.Second)
}

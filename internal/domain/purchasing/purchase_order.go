package purchasing

import (
	"fmt"
	"time"

	"github.com/farmdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a purchase order
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPartial   Status = "partial"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPartial, StatusReceived, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can move to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusSent || target == StatusCancelled
	case StatusSent:
		return target == StatusPartial || target == StatusReceived || target == StatusCancelled
	case StatusPartial:
		return target == StatusPartial || target == StatusReceived || target == StatusCancelled
	case StatusReceived, StatusCancelled:
		return false // terminal
	}
	return false
}

// CanReceive returns true if goods may be received in this status
func (s Status) CanReceive() bool {
	return s == StatusSent || s == StatusPartial
}

// Line is one ordered item on a purchase order.
// ReceivedQuantity only ever grows, and never past OrderedQuantity.
type Line struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	InventoryItemID  uuid.UUID       `gorm:"type:uuid;not null"`
	ItemName         string          `gorm:"type:varchar(200);not null"`
	OrderedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Line) TableName() string {
	return "purchase_order_lines"
}

// NewLine creates a purchase order line
func NewLine(orderID, itemID uuid.UUID, itemName string, quantity, unitPrice decimal.Decimal) (*Line, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Inventory item ID cannot be empty")
	}
	if itemName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Item name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unit price cannot be negative")
	}

	now := time.Now()
	return &Line{
		ID:               uuid.New(),
		OrderID:          orderID,
		InventoryItemID:  itemID,
		ItemName:         itemName,
		OrderedQuantity:  quantity,
		ReceivedQuantity: decimal.Zero,
		UnitPrice:        unitPrice,
		Amount:           quantity.Mul(unitPrice),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// RemainingQuantity returns the quantity still to be received
func (l *Line) RemainingQuantity() decimal.Decimal {
	remaining := l.OrderedQuantity.Sub(l.ReceivedQuantity)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsFullyReceived returns true if all ordered quantity has been received
func (l *Line) IsFullyReceived() bool {
	return l.ReceivedQuantity.GreaterThanOrEqual(l.OrderedQuantity)
}

// addReceivedQuantity adds to the received quantity, never past the ordered quantity
func (l *Line) addReceivedQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}

	newReceived := l.ReceivedQuantity.Add(quantity)
	if newReceived.GreaterThan(l.OrderedQuantity) {
		return shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Cannot receive %s, only %s remaining", quantity.String(), l.RemainingQuantity().String()))
	}

	l.ReceivedQuantity = newReceived
	l.UpdatedAt = time.Now()

	return nil
}

// ReceiveLine is a caller-specified receipt quantity for one order line
type ReceiveLine struct {
	LineID   uuid.UUID
	Quantity decimal.Decimal
}

// AppliedReceipt describes one line actually received, used by the receiving
// coordinator to post the matching ledger movement
type AppliedReceipt struct {
	LineID          uuid.UUID
	InventoryItemID uuid.UUID
	ItemName        string
	Quantity        decimal.Decimal
}

// PurchaseOrder is the aggregate root for one commitment to buy goods from a
// supplier. The stored total is a cache recomputed from the lines on every
// mutation, never authoritative on its own.
type PurchaseOrder struct {
	shared.OwnedAggregateRoot
	OrderNumber          string     `gorm:"type:varchar(30);not null;uniqueIndex"`
	SupplierID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status               Status     `gorm:"type:varchar(20);not null;default:'draft'"`
	OrderDate            time.Time  `gorm:"type:timestamptz;not null"`
	ExpectedDeliveryDate *time.Time `gorm:"type:timestamptz"`
	Lines                []Line     `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SentAt               *time.Time
	ReceivedAt           *time.Time
	CancelledAt          *time.Time
	CancelReason         string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a draft purchase order
func NewPurchaseOrder(ownerID uuid.UUID, orderNumber string, supplierID uuid.UUID, expectedDelivery *time.Time) (*PurchaseOrder, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Owner ID cannot be empty")
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Supplier ID cannot be empty")
	}

	return &PurchaseOrder{
		OwnedAggregateRoot:   shared.NewOwnedAggregateRoot(ownerID),
		OrderNumber:          orderNumber,
		SupplierID:           supplierID,
		Status:               StatusDraft,
		OrderDate:            time.Now(),
		ExpectedDeliveryDate: expectedDelivery,
		Lines:                make([]Line, 0),
		TotalAmount:          decimal.Zero,
	}, nil
}

// AddLine adds a new line to the order. Only allowed while draft.
func (o *PurchaseOrder) AddLine(itemID uuid.UUID, itemName string, quantity, unitPrice decimal.Decimal) (*Line, error) {
	if o.Status != StatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE_TRANSITION", "Cannot add lines to a non-draft order")
	}

	for _, line := range o.Lines {
		if line.InventoryItemID == itemID {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Item already on order, update the line instead")
		}
	}

	line, err := NewLine(o.ID, itemID, itemName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Lines = append(o.Lines, *line)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return line, nil
}

// UpdateLineQuantity changes the ordered quantity on a draft order line
func (o *PurchaseOrder) UpdateLineQuantity(lineID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE_TRANSITION", "Cannot update lines on a non-draft order")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity must be positive")
	}

	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			o.Lines[idx].OrderedQuantity = quantity
			o.Lines[idx].Amount = quantity.Mul(o.Lines[idx].UnitPrice)
			o.Lines[idx].UpdatedAt = time.Now()
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("NOT_FOUND", "Order line not found")
}

// RemoveLine removes a line from a draft order
func (o *PurchaseOrder) RemoveLine(lineID uuid.UUID) error {
	if o.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE_TRANSITION", "Cannot remove lines from a non-draft order")
	}

	for idx, line := range o.Lines {
		if line.ID == lineID {
			o.Lines = append(o.Lines[:idx], o.Lines[idx+1:]...)
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("NOT_FOUND", "Order line not found")
}

// Send marks the order as sent to the supplier. Requires at least one line.
func (o *PurchaseOrder) Send() error {
	if !o.Status.CanTransitionTo(StatusSent) {
		return shared.NewDomainError("INVALID_STATE_TRANSITION",
			fmt.Sprintf("Cannot send order in %s status", o.Status))
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainError("INVALID_STATE_TRANSITION", "Cannot send an order without lines")
	}

	now := time.Now()
	o.Status = StatusSent
	o.SentAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// Receive applies the given receipt quantities to the order lines and
// recomputes the status: received when every line is complete, else partial.
// The resulting status is computed, never chosen by the caller.
func (o *PurchaseOrder) Receive(lines []ReceiveLine) ([]AppliedReceipt, error) {
	if !o.Status.CanReceive() {
		return nil, shared.NewDomainError("INVALID_STATE_TRANSITION",
			fmt.Sprintf("Cannot receive goods for order in %s status", o.Status))
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Receive lines cannot be empty")
	}

	applied := make([]AppliedReceipt, 0, len(lines))
	for _, rl := range lines {
		line := o.lineByID(rl.LineID)
		if line == nil {
			return nil, shared.NewDomainError("NOT_FOUND", "Order line not found")
		}
		if err := line.addReceivedQuantity(rl.Quantity); err != nil {
			return nil, err
		}
		applied = append(applied, AppliedReceipt{
			LineID:          line.ID,
			InventoryItemID: line.InventoryItemID,
			ItemName:        line.ItemName,
			Quantity:        rl.Quantity,
		})
	}

	now := time.Now()
	if o.allLinesReceived() {
		o.Status = StatusReceived
		o.ReceivedAt = &now
	} else {
		o.Status = StatusPartial
	}
	o.UpdatedAt = now
	o.IncrementVersion()

	return applied, nil
}

// RemainingReceiveLines builds the receipt that would complete every line.
// Used for the "no explicit lines means receive everything" default.
func (o *PurchaseOrder) RemainingReceiveLines() []ReceiveLine {
	lines := make([]ReceiveLine, 0, len(o.Lines))
	for _, line := range o.Lines {
		remaining := line.RemainingQuantity()
		if remaining.GreaterThan(decimal.Zero) {
			lines = append(lines, ReceiveLine{LineID: line.ID, Quantity: remaining})
		}
	}
	return lines
}

// Cancel soft-cancels the order. Allowed from draft, sent and partial;
// goods already received stay on hand, the remainder is simply never expected.
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE_TRANSITION",
			fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// recalculateTotal recomputes the cached order total from the lines
func (o *PurchaseOrder) recalculateTotal() {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Amount)
	}
	o.TotalAmount = total
}

// allLinesReceived checks if every line has been fully received
func (o *PurchaseOrder) allLinesReceived() bool {
	for _, line := range o.Lines {
		if !line.IsFullyReceived() {
			return false
		}
	}
	return len(o.Lines) > 0
}

// lineByID returns a line by its ID, or nil
func (o *PurchaseOrder) lineByID(lineID uuid.UUID) *Line {
	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			return &o.Lines[idx]
		}
	}
	return nil
}

// GetLine returns a line by its ID, or nil
func (o *PurchaseOrder) GetLine(lineID uuid.UUID) *Line {
	return o.lineByID(lineID)
}

// IsDraft returns true if the order is still a draft
func (o *PurchaseOrder) IsDraft() bool {
	return o.Status == StatusDraft
}

// IsTerminal returns true if the order is received or cancelled
func (o *PurchaseOrder) IsTerminal() bool {
	return o.Status == StatusReceived || o.Status == StatusCancelled
}

// TotalRemainingQuantity returns the quantity still expected across all lines
func (o *PurchaseOrder) TotalRemainingQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.RemainingQuantity())
	}
	return total
}

package purchasing

import (
	"context"

	"github.com/farmdesk/backend/internal/domain/identity"
	"github.com/farmdesk/backend/internal/domain/inventory"
	"github.com/farmdesk/backend/internal/domain/numbering"
	"github.com/farmdesk/backend/internal/domain/purchasing"
	"github.com/farmdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultListLimit = 50

// Service handles purchase order business operations, including the
// receiving flow that couples orders to the inventory ledger.
type Service struct {
	orderRepo purchasing.Repository
	txScope   TransactionScope
	logger    *zap.Logger
}

// NewService creates a new purchasing Service
func NewService(orderRepo purchasing.Repository, txScope TransactionScope, logger *zap.Logger) *Service {
	return &Service{
		orderRepo: orderRepo,
		txScope:   txScope,
		logger:    logger,
	}
}

// Create allocates an order number and persists a new draft order. Lines
// reference inventory items; each item must be visible to the order's
// owner, and the stored line name is snapshotted from the item.
func (s *Service) Create(ctx context.Context, caller identity.Caller, req CreateOrderRequest) (*OrderResponse, error) {
	ownerID := caller.UserID
	if req.OwnerID != nil && caller.Role == identity.RoleAdmin {
		ownerID = *req.OwnerID
	}
	ownerScope := identity.OwnedBy(ownerID)

	var order *purchasing.PurchaseOrder
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		orderNumber, err := repos.Numbers().NextNumber(ctx, numbering.PrefixPurchaseOrder)
		if err != nil {
			return err
		}

		order, err = purchasing.NewPurchaseOrder(ownerID, orderNumber, req.SupplierID, req.ExpectedDeliveryDate)
		if err != nil {
			return err
		}

		for _, input := range req.Lines {
			item, err := repos.Items().FindByID(ctx, ownerScope, input.ItemID)
			if err != nil {
				return err
			}
			if _, err := order.AddLine(item.ID, item.Name, input.Quantity, input.UnitPrice); err != nil {
				return err
			}
		}

		return repos.Orders().Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("owner_id", ownerID.String()))

	return ToOrderResponse(order), nil
}

// Get returns a single order within the caller's scope
func (s *Service) Get(ctx context.Context, caller identity.Caller, orderID uuid.UUID) (*OrderResponse, error) {
	scope := identity.ResolveScope(caller)
	order, err := s.orderRepo.FindByID(ctx, scope, orderID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// GetByNumber looks an order up by its document number, the identity
// printed on the paperwork a supplier sends back
func (s *Service) GetByNumber(ctx context.Context, caller identity.Caller, orderNumber string) (*OrderResponse, error) {
	scope := identity.ResolveScope(caller)
	order, err := s.orderRepo.FindByOrderNumber(ctx, scope, orderNumber)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// List returns a page of orders within the caller's scope, newest first
func (s *Service) List(ctx context.Context, caller identity.Caller, query ListOrdersQuery) (*OrderListResponse, error) {
	scope := identity.ResolveScope(caller)

	filter := purchasing.ListFilter{
		SupplierID: query.SupplierID,
		Limit:      query.Limit,
		Offset:     query.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if query.Status != "" {
		status := purchasing.Status(query.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Unknown order status")
		}
		filter.Status = &status
	}

	orders, err := s.orderRepo.List(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, scope, filter)
	if err != nil {
		return nil, err
	}

	return &OrderListResponse{
		Orders: ToOrderResponses(orders),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

// AddLine adds a line to a draft order
func (s *Service) AddLine(ctx context.Context, caller identity.Caller, orderID uuid.UUID, req AddLineRequest) (*OrderResponse, error) {
	scope := identity.ResolveScope(caller)

	var order *purchasing.PurchaseOrder
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByIDForUpdate(ctx, scope, orderID)
		if err != nil {
			return err
		}

		item, err := repos.Items().FindByID(ctx, identity.OwnedBy(order.OwnerID), req.ItemID)
		if err != nil {
			return err
		}
		if _, err := order.AddLine(item.ID, item.Name, req.Quantity, req.UnitPrice); err != nil {
			return err
		}
		return repos.Orders().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// UpdateLine changes the ordered quantity on a draft order line
func (s *Service) UpdateLine(ctx context.Context, caller identity.Caller, orderID, lineID uuid.UUID, req UpdateLineRequest) (*OrderResponse, error) {
	scope := identity.ResolveScope(caller)

	var order *purchasing.PurchaseOrder
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByIDForUpdate(ctx, scope, orderID)
		if err != nil {
			return err
		}
		if err := order.UpdateLineQuantity(lineID, req.Quantity); err != nil {
			return err
		}
		return repos.Orders().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// RemoveLine removes a line from a draft order
func (s *Service) RemoveLine(ctx context.Context, caller identity.Caller, orderID, lineID uuid.UUID) (*OrderResponse, error) {
	scope := identity.ResolveScope(caller)

	var order *purchasing.PurchaseOrder
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByIDForUpdate(ctx, scope, orderID)
		if err != nil {
			return err
		}
		if err := order.RemoveLine(lineID); err != nil {
			return err
		}
		return repos.Orders().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// Send marks a draft order as sent to the supplier
func (s *Service) Send(ctx context.Context, caller identity.Caller, orderID uuid.UUID) (*OrderResponse, error) {
	scope := identity.ResolveScope(caller)

	var order *purchasing.PurchaseOrder
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByIDForUpdate(ctx, scope, orderID)
		if err != nil {
			return err
		}
		if err := order.Send(); err != nil {
			return err
		}
		return repos.Orders().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order sent",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber))

	return ToOrderResponse(order), nil
}

// Receive records goods arriving against a sent or partially received
// order. In one transaction it locks the order row, applies the receipt
// quantities, posts one purchase_receipt movement per received line and
// updates each item's cached quantity. An order that is draft, cancelled
// or already fully received reads as not found, same as an absent one.
//
// Empty request lines mean "receive everything still outstanding".
func (s *Service) Receive(ctx context.Context, caller identity.Caller, orderID uuid.UUID, req ReceiveOrderRequest) (*OrderResponse, error) {
	scope := identity.ResolveScope(caller)

	var order *purchasing.PurchaseOrder
	var recovered []*inventory.InventoryItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByIDForUpdate(ctx, scope, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanReceive() {
			return shared.ErrNotFound
		}

		receiveLines := make([]purchasing.ReceiveLine, 0, len(req.Lines))
		for _, input := range req.Lines {
			receiveLines = append(receiveLines, purchasing.ReceiveLine{
				LineID:   input.LineID,
				Quantity: input.Quantity,
			})
		}
		if len(receiveLines) == 0 {
			receiveLines = order.RemainingReceiveLines()
		}

		applied, err := order.Receive(receiveLines)
		if err != nil {
			return err
		}

		recovered = recovered[:0]
		ownerScope := identity.OwnedBy(order.OwnerID)
		for _, receipt := range applied {
			item, err := repos.Items().FindByIDForUpdate(ctx, ownerScope, receipt.InventoryItemID)
			if err != nil {
				return err
			}
			wasLow := item.IsLowStock(nil)

			movement, err := inventory.NewMovement(item.ID, order.OwnerID, receipt.Quantity,
				inventory.MovementTypePurchaseReceipt, order.OrderNumber, caller.UserID, "")
			if err != nil {
				return err
			}
			if err := item.ApplyMovement(movement.Delta, movement.MovementType); err != nil {
				return err
			}
			if err := repos.Movements().Append(ctx, movement); err != nil {
				return err
			}
			if err := repos.Items().SaveWithLock(ctx, item); err != nil {
				return err
			}
			if wasLow && !item.IsLowStock(nil) {
				recovered = append(recovered, item)
			}
		}

		return repos.Orders().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("goods received",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("status", order.Status.String()),
		zap.String("remaining", order.TotalRemainingQuantity().String()),
		zap.String("actor_id", caller.UserID.String()))
	for _, item := range recovered {
		s.logger.Info("item recovered above reorder threshold",
			zap.String("item_id", item.ID.String()),
			zap.String("name", item.Name),
			zap.String("quantity_on_hand", item.QuantityOnHand.String()))
	}

	return ToOrderResponse(order), nil
}

// Cancel soft-cancels an order from draft, sent or partial status.
// Stock already received through the order is untouched.
func (s *Service) Cancel(ctx context.Context, caller identity.Caller, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	scope := identity.ResolveScope(caller)

	var order *purchasing.PurchaseOrder
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByIDForUpdate(ctx, scope, orderID)
		if err != nil {
			return err
		}
		if err := order.Cancel(req.Reason); err != nil {
			return err
		}
		return repos.Orders().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order cancelled",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("reason", req.Reason))

	return ToOrderResponse(order), nil
}

// DeleteDraft hard-deletes a draft order. Orders past draft are never
// deleted, only cancelled.
func (s *Service) DeleteDraft(ctx context.Context, caller identity.Caller, orderID uuid.UUID) error {
	scope := identity.ResolveScope(caller)

	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.Orders().FindByIDForUpdate(ctx, scope, orderID)
		if err != nil {
			return err
		}
		if !order.IsDraft() {
			return shared.NewDomainError("INVALID_STATE_TRANSITION", "Only draft orders can be deleted")
		}
		return repos.Orders().DeleteDraft(ctx, order)
	})
}

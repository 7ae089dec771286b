package inventory

import (
	"context"

	"github.com/farmdesk/backend/internal/domain/identity"
	"github.com/farmdesk/backend/internal/domain/inventory"
	"github.com/farmdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service handles inventory business operations
type Service struct {
	itemRepo     inventory.ItemRepository
	movementRepo inventory.MovementRepository
	txScope      TransactionScope
	logger       *zap.Logger
}

// NewService creates a new inventory Service
func NewService(itemRepo inventory.ItemRepository, movementRepo inventory.MovementRepository, txScope TransactionScope, logger *zap.Logger) *Service {
	return &Service{
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		txScope:      txScope,
		logger:       logger,
	}
}

// CreateItem creates a new inventory item with zero stock. An optional
// initial quantity is posted as an adjustment movement so the ledger
// stays the single source of every quantity change.
func (s *Service) CreateItem(ctx context.Context, caller identity.Caller, req CreateItemRequest) (*ItemResponse, error) {
	ownerID := caller.UserID
	if req.OwnerID != nil && caller.Role == identity.RoleAdmin {
		ownerID = *req.OwnerID
	}

	threshold := decimal.Zero
	if req.ReorderThreshold != nil {
		threshold = *req.ReorderThreshold
	}

	item, err := inventory.NewInventoryItem(ownerID, req.Name, req.Category, threshold)
	if err != nil {
		return nil, err
	}

	if req.InitialQuantity != nil && req.InitialQuantity.Sign() < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Initial quantity cannot be negative")
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Items().Create(ctx, item); err != nil {
			return err
		}
		if req.InitialQuantity == nil || req.InitialQuantity.IsZero() {
			return nil
		}

		movement, err := inventory.NewMovement(item.ID, ownerID, *req.InitialQuantity,
			inventory.MovementTypeAdjustmentIn, "", caller.UserID, "Initial stock")
		if err != nil {
			return err
		}
		if err := item.ApplyMovement(movement.Delta, movement.MovementType); err != nil {
			return err
		}
		if err := repos.Movements().Append(ctx, movement); err != nil {
			return err
		}
		return repos.Items().SaveWithLock(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("inventory item created",
		zap.String("item_id", item.ID.String()),
		zap.String("owner_id", ownerID.String()),
		zap.String("name", item.Name))

	return ToItemResponse(item), nil
}

// GetItem returns a single item within the caller's scope
func (s *Service) GetItem(ctx context.Context, caller identity.Caller, itemID uuid.UUID) (*ItemResponse, error) {
	scope := identity.ResolveScope(caller)
	item, err := s.itemRepo.FindByID(ctx, scope, itemID)
	if err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// ListItems returns all items within the caller's scope
func (s *Service) ListItems(ctx context.Context, caller identity.Caller) ([]*ItemResponse, error) {
	scope := identity.ResolveScope(caller)
	items, err := s.itemRepo.FindAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	return ToItemResponses(items), nil
}

// PostMovement appends a manual movement to the ledger and updates the
// item's cached quantity in the same transaction. Purchase receipts are
// rejected here: they are only ever posted by the receiving flow so every
// receipt stays tied to its purchase order.
func (s *Service) PostMovement(ctx context.Context, caller identity.Caller, req PostMovementRequest) (*MovementResponse, error) {
	movementType := inventory.MovementType(req.MovementType)
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown movement type")
	}
	if movementType == inventory.MovementTypePurchaseReceipt {
		return nil, shared.NewDomainError("INVALID_INPUT", "Purchase receipts are posted through order receiving")
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	delta := req.Quantity
	if movementType.Direction() < 0 {
		delta = delta.Neg()
	}

	scope := identity.ResolveScope(caller)

	var movement *inventory.Movement
	var item *inventory.InventoryItem
	var wasLow bool
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.Items().FindByIDForUpdate(ctx, scope, req.ItemID)
		if err != nil {
			return err
		}
		wasLow = item.IsLowStock(nil)

		movement, err = inventory.NewMovement(item.ID, item.OwnerID, delta, movementType,
			req.ReferenceID, caller.UserID, req.Notes)
		if err != nil {
			return err
		}
		if err := item.ApplyMovement(movement.Delta, movement.MovementType); err != nil {
			return err
		}
		if err := repos.Movements().Append(ctx, movement); err != nil {
			return err
		}
		return repos.Items().SaveWithLock(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("movement posted",
		zap.String("item_id", req.ItemID.String()),
		zap.String("movement_type", string(movementType)),
		zap.String("delta", delta.String()),
		zap.String("actor_id", caller.UserID.String()))

	if !wasLow && item.IsLowStock(nil) {
		s.logger.Warn("item fell to or below reorder threshold",
			zap.String("item_id", item.ID.String()),
			zap.String("name", item.Name),
			zap.String("quantity_on_hand", item.QuantityOnHand.String()),
			zap.String("reorder_threshold", item.ReorderThreshold.String()))
	}

	return ToMovementResponse(movement), nil
}

// GetMovementHistory returns the ledger for one item, newest first
func (s *Service) GetMovementHistory(ctx context.Context, caller identity.Caller, itemID uuid.UUID) ([]*MovementResponse, error) {
	scope := identity.ResolveScope(caller)

	// confirm visibility first so an out-of-scope item reads as not found
	if _, err := s.itemRepo.FindByID(ctx, scope, itemID); err != nil {
		return nil, err
	}

	movements, err := s.movementRepo.FindByItem(ctx, scope, itemID)
	if err != nil {
		return nil, err
	}
	return ToMovementResponses(movements), nil
}

// GetLowStock returns items at or below the reorder threshold. A non-nil
// threshold overrides every item's own threshold for this query only.
func (s *Service) GetLowStock(ctx context.Context, caller identity.Caller, threshold *decimal.Decimal) ([]*ItemResponse, error) {
	if threshold != nil && threshold.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Threshold cannot be negative")
	}

	scope := identity.ResolveScope(caller)
	items, err := s.itemRepo.FindLowStock(ctx, scope, threshold)
	if err != nil {
		return nil, err
	}
	return ToItemResponses(items), nil
}

// UpdateThreshold changes an item's reorder threshold
func (s *Service) UpdateThreshold(ctx context.Context, caller identity.Caller, itemID uuid.UUID, req UpdateThresholdRequest) (*ItemResponse, error) {
	scope := identity.ResolveScope(caller)

	var item *inventory.InventoryItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.Items().FindByIDForUpdate(ctx, scope, itemID)
		if err != nil {
			return err
		}
		if err := item.SetReorderThreshold(req.ReorderThreshold); err != nil {
			return err
		}
		return repos.Items().SaveWithLock(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	return ToItemResponse(item), nil
}

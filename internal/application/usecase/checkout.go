package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/waste3d/lootshop-api/internal/domain"
	"github.com/waste3d/lootshop-api/internal/infrastructure/lock"
	"github.com/waste3d/lootshop-api/internal/infrastructure/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseXPPerLine is the XP granted for every distinct line of an order.
const PurchaseXPPerLine = 50

type CheckoutResult struct {
	Order    *domain.Order  `json:"order"`
	XP       domain.XPAward `json:"xp"`
	Unlocked []string       `json:"unlocked,omitempty"`
	Events   []domain.Event `json:"events,omitempty"`
}

// CheckoutUseCase settles carts into orders.
type CheckoutUseCase struct {
	store       *repository.Store
	progression *ProgressionUseCase
	unlocks     *UnlockUseCase
	locks       *lock.KeyedMutex
	log         *zap.Logger
	now         func() time.Time
}

func NewCheckoutUseCase(
	store *repository.Store,
	progression *ProgressionUseCase,
	unlocks *UnlockUseCase,
	locks *lock.KeyedMutex,
	log *zap.Logger,
	now func() time.Time,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		store:       store,
		progression: progression,
		unlocks:     unlocks,
		locks:       locks,
		log:         log,
		now:         now,
	}
}

// CreateOrder turns the user's cart into an order with price snapshots and
// empties the cart. Spend tracking and purchase XP are applied in the same
// transaction, so either all of it is visible or none of it is.
func (uc *CheckoutUseCase) CreateOrder(ctx context.Context, userID uuid.UUID) (*CheckoutResult, error) {
	unlock := uc.locks.Lock(userID.String())
	defer unlock()

	now := uc.now()
	result := &CheckoutResult{}
	var profile *domain.Profile

	err := uc.store.InTx(ctx, func(tx *repository.Store) error {
		lines, err := tx.Carts.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}

		prices, err := tx.Products.ResolvePrices(ctx, distinctProducts(lines))
		if err != nil {
			return err
		}

		order := domain.NewOrder(userID, lines, prices)
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}

		lineIDs := make([]uuid.UUID, 0, len(lines))
		for _, l := range lines {
			lineIDs = append(lineIDs, l.ID)
		}
		removed, err := tx.Carts.RemoveLines(ctx, userID, lineIDs)
		if err != nil {
			return err
		}
		if removed != int64(len(lines)) {
			return fmt.Errorf("%w: cart changed during checkout", domain.ErrConflict)
		}

		result.Unlocked, err = uc.unlocks.recordSpend(ctx, tx, userID, order.Total, now)
		if err != nil {
			return err
		}

		result.XP, profile, err = uc.progression.award(ctx, tx, userID, int64(PurchaseXPPerLine*len(lines)))
		if err != nil {
			return err
		}

		result.Order = order
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	uc.progression.committed(ctx, profile)
	if result.XP.LeveledUp {
		e := domain.LevelUpEvent(userID, result.XP, now)
		result.Events = append(result.Events, e)
		uc.progression.publish(ctx, e)
	}
	unlockEvents := domain.UnlockEvents(userID, result.Unlocked, now)
	result.Events = append(result.Events, unlockEvents...)
	uc.unlocks.publish(ctx, unlockEvents...)

	uc.log.Info("order created",
		zap.String("user_id", userID.String()),
		zap.String("order_id", result.Order.ID.String()),
		zap.String("total", result.Order.Total.StringFixed(2)),
		zap.Int("lines", len(result.Order.Items)))
	return result, nil
}

func (uc *CheckoutUseCase) ListOrders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	orders, err := uc.store.Orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (uc *CheckoutUseCase) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*domain.Order, error) {
	order, err := uc.store.Orders.GetByID(ctx, userID, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

func distinctProducts(lines []domain.CartItem) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}

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

type AddToCartResult struct {
	Item     *domain.CartItem `json:"item"`
	Unlocked []string         `json:"unlocked,omitempty"`
}

type CartUseCase struct {
	store   *repository.Store
	unlocks *UnlockUseCase
	locks   *lock.KeyedMutex
	log     *zap.Logger
	now     func() time.Time
}

func NewCartUseCase(
	store *repository.Store,
	unlocks *UnlockUseCase,
	locks *lock.KeyedMutex,
	log *zap.Logger,
	now func() time.Time,
) *CartUseCase {
	return &CartUseCase{
		store:   store,
		unlocks: unlocks,
		locks:   locks,
		log:     log,
		now:     now,
	}
}

func (uc *CartUseCase) GetCart(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	items, err := uc.store.Carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return items, nil
}

// AddToCart adds quantity of a product (optionally a specific SKU) and counts
// the add towards the rapid-add streak in the same transaction.
func (uc *CartUseCase) AddToCart(ctx context.Context, userID, productID uuid.UUID, variantID string, quantity int) (*AddToCartResult, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", domain.ErrInvalidArgument, quantity)
	}

	unlock := uc.locks.Lock(userID.String())
	defer unlock()

	now := uc.now()
	result := &AddToCartResult{}
	err := uc.store.InTx(ctx, func(tx *repository.Store) error {
		product, err := tx.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if variantID != "" && !hasSKU(product, variantID) {
			return fmt.Errorf("%w: variant %s of %s", domain.ErrProductNotFound, variantID, productID)
		}

		result.Item, err = tx.Carts.Add(ctx, &domain.CartItem{
			UserID:    userID,
			ProductID: productID,
			VariantID: variantID,
			Quantity:  quantity,
		})
		if err != nil {
			return err
		}

		result.Unlocked, err = uc.unlocks.recordAdd(ctx, tx, userID, now)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	uc.unlocks.publish(ctx, domain.UnlockEvents(userID, result.Unlocked, now)...)
	return result, nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (uc *CartUseCase) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	unlock := uc.locks.Lock(userID.String())
	defer unlock()

	var err error
	if quantity <= 0 {
		err = uc.store.Carts.Remove(ctx, userID, itemID)
	} else {
		err = uc.store.Carts.SetQuantity(ctx, userID, itemID, quantity)
	}
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	return nil
}

func (uc *CartUseCase) RemoveFromCart(ctx context.Context, userID, itemID uuid.UUID) error {
	unlock := uc.locks.Lock(userID.String())
	defer unlock()

	if err := uc.store.Carts.Remove(ctx, userID, itemID); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

func (uc *CartUseCase) ClearCart(ctx context.Context, userID uuid.UUID) error {
	unlock := uc.locks.Lock(userID.String())
	defer unlock()

	if err := uc.store.Carts.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func hasSKU(p *domain.Product, skuID string) bool {
	for _, s := range p.SKUs {
		if s.ID.String() == skuID {
			return true
		}
	}
	return false
}

package repository

import (
	"context"

	"github.com/waste3d/lootshop-api/internal/domain"

	"gorm.io/gorm"
)

// Store groups the repositories that share one connection or transaction.
type Store struct {
	db *gorm.DB

	Profiles *ProfileRepository
	Products *ProductRepository
	Carts    *CartRepository
	Orders   *OrderRepository
	Unlocks  *UnlockRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		Profiles: NewProfileRepository(db),
		Products: NewProductRepository(db),
		Carts:    NewCartRepository(db),
		Orders:   NewOrderRepository(db),
		Unlocks:  NewUnlockRepository(db),
	}
}

// InTx runs fn against a Store bound to a single transaction. Any error
// returned by fn rolls the whole unit back.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Profile{},
		&domain.Product{},
		&domain.SKU{},
		&domain.CartItem{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.UnlockState{},
		&domain.UnlockedAchievement{},
	)
}

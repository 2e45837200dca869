package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem is one cart line. Lines are unique per (user, product, variant);
// an empty VariantID means the product was added without a variant.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_line,priority:1" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_line,priority:2" json:"product_id"`
	VariantID string    `gorm:"size:64;not null;default:'';uniqueIndex:idx_cart_line,priority:3" json:"variant_id,omitempty"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (c *CartItem) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

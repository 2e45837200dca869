package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RarityTier string

const (
	RarityCommon    RarityTier = "COMMON"
	RarityUncommon  RarityTier = "UNCOMMON"
	RarityRare      RarityTier = "RARE"
	RarityEpic      RarityTier = "EPIC"
	RarityLegendary RarityTier = "LEGENDARY"
)

func (r RarityTier) Valid() bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string          `gorm:"uniqueIndex;not null;size:128" json:"slug"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	RarityTier  RarityTier      `gorm:"size:16;default:'COMMON'" json:"rarity_tier"`
	Category    string          `gorm:"index" json:"category"`

	// Size/color variants
	SKUs []SKU `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE;" json:"skus,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type SKU struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID     uuid.UUID `gorm:"type:uuid;index;not null" json:"product_id"`
	Size          string    `json:"size,omitempty"`
	Color         string    `json:"color,omitempty"`
	StockQuantity int       `gorm:"default:0" json:"stock_quantity"`
}

func (s *SKU) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

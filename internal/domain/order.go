package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Order is written once at checkout and never updated.
type Order struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Status    OrderStatus     `gorm:"size:16;not null;default:'PENDING'" json:"status"`
	Total     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total"`
	Items     []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE;" json:"items"`
	CreatedAt time.Time       `json:"created_at"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem carries the unit price as it was when the order was placed.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	VariantID string          `gorm:"size:64;not null;default:''" json:"variant_id,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"line_total"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// NewOrder snapshots every cart line at the given unit prices. The caller
// guarantees a price exists for each product.
func NewOrder(userID uuid.UUID, lines []CartItem, prices map[uuid.UUID]decimal.Decimal) *Order {
	order := &Order{
		ID:     uuid.New(),
		UserID: userID,
		Status: OrderPending,
		Total:  decimal.Zero,
		Items:  make([]OrderItem, 0, len(lines)),
	}
	for _, line := range lines {
		unit := prices[line.ProductID]
		lineTotal := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
		order.Items = append(order.Items, OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			UnitPrice: unit,
			LineTotal: lineTotal,
		})
		order.Total = order.Total.Add(lineTotal)
	}
	return order
}

package handlers

import (
	"time"

	"github.com/waste3d/lootshop-api/internal/application/usecase"
	"github.com/waste3d/lootshop-api/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Money always leaves the API with two decimal places, e.g. "35.00".
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type productView struct {
	ID          uuid.UUID         `json:"id"`
	Slug        string            `json:"slug"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Price       string            `json:"price"`
	RarityTier  domain.RarityTier `json:"rarity_tier"`
	Category    string            `json:"category"`
	SKUs        []domain.SKU      `json:"skus,omitempty"`
}

func newProductView(p *domain.Product) productView {
	return productView{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		Description: p.Description,
		Price:       money(p.Price),
		RarityTier:  p.RarityTier,
		Category:    p.Category,
		SKUs:        p.SKUs,
	}
}

func productViews(products []domain.Product) []productView {
	out := make([]productView, 0, len(products))
	for i := range products {
		out = append(out, newProductView(&products[i]))
	}
	return out
}

type orderItemView struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	VariantID string    `json:"variant_id,omitempty"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
	LineTotal string    `json:"line_total"`
}

type orderView struct {
	ID        uuid.UUID          `json:"id"`
	Status    domain.OrderStatus `json:"status"`
	Total     string             `json:"total"`
	Items     []orderItemView    `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
}

func newOrderView(o *domain.Order) orderView {
	items := make([]orderItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemView{
			ID:        it.ID,
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			UnitPrice: money(it.UnitPrice),
			LineTotal: money(it.LineTotal),
		})
	}
	return orderView{
		ID:        o.ID,
		Status:    o.Status,
		Total:     money(o.Total),
		Items:     items,
		CreatedAt: o.CreatedAt,
	}
}

func orderViews(orders []domain.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for i := range orders {
		out = append(out, newOrderView(&orders[i]))
	}
	return out
}

type checkoutView struct {
	Order    orderView      `json:"order"`
	XP       domain.XPAward `json:"xp"`
	Unlocked []string       `json:"unlocked,omitempty"`
	Events   []domain.Event `json:"events,omitempty"`
}

func newCheckoutView(res *usecase.CheckoutResult) checkoutView {
	return checkoutView{
		Order:    newOrderView(res.Order),
		XP:       res.XP,
		Unlocked: res.Unlocked,
		Events:   res.Events,
	}
}

type unlockSummaryView struct {
	UnlockedIDs   []string `json:"unlocked_ids"`
	TotalSpent    string   `json:"total_spent"`
	FastAddStreak int      `json:"fast_add_streak"`
}

func newUnlockSummaryView(s *usecase.UnlockSummary) unlockSummaryView {
	return unlockSummaryView{
		UnlockedIDs:   s.UnlockedIDs,
		TotalSpent:    money(s.TotalSpent),
		FastAddStreak: s.FastAddStreak,
	}
}

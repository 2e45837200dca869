package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/waste3d/lootshop-api/internal/domain"
	"github.com/waste3d/lootshop-api/internal/infrastructure/repository"

	"go.uber.org/zap"
)

type CatalogUseCase struct {
	store *repository.Store
	log   *zap.Logger
}

func NewCatalogUseCase(store *repository.Store, log *zap.Logger) *CatalogUseCase {
	return &CatalogUseCase{store: store, log: log}
}

// ListProducts returns the catalog, optionally narrowed to one category and
// one rarity tier.
func (uc *CatalogUseCase) ListProducts(ctx context.Context, category string, rarity domain.RarityTier) ([]domain.Product, error) {
	if rarity != "" && !rarity.Valid() {
		return nil, fmt.Errorf("%w: unknown rarity tier %q", domain.ErrInvalidArgument, rarity)
	}
	products, err := uc.store.Products.List(ctx, repository.ProductFilter{
		Category: strings.TrimSpace(category),
		Rarity:   rarity,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (uc *CatalogUseCase) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", domain.ErrInvalidArgument)
	}
	products, err := uc.store.Products.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return products, nil
}

func (uc *CatalogUseCase) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := uc.store.Products.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (uc *CatalogUseCase) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	product, err := uc.store.Products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get product %q: %w", slug, err)
	}
	return product, nil
}

// Seed upserts products by slug. Prices must be non-negative.
func (uc *CatalogUseCase) Seed(ctx context.Context, products []domain.Product) (int, error) {
	for i := range products {
		p := &products[i]
		if p.Slug == "" {
			return i, fmt.Errorf("%w: product #%d has no slug", domain.ErrInvalidArgument, i)
		}
		if p.Price.IsNegative() {
			return i, fmt.Errorf("%w: product %q has negative price", domain.ErrInvalidArgument, p.Slug)
		}
		if err := uc.store.Products.Upsert(ctx, p); err != nil {
			return i, fmt.Errorf("seed %q: %w", p.Slug, err)
		}
		uc.log.Debug("product seeded", zap.String("slug", p.Slug), zap.String("id", p.ID.String()))
	}
	return len(products), nil
}

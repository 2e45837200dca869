package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/waste3d/lootshop-api/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ProductFilter narrows List. Zero fields match everything.
type ProductFilter struct {
	Category string
	Rarity   domain.RarityTier
}

func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	query := r.db.WithContext(ctx).Preload("SKUs")
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Rarity != "" {
		query = query.Where("rarity_tier = ?", filter.Rarity)
	}

	var products []domain.Product
	err := query.Order("title asc").Find(&products).Error
	return products, err
}

// Search matches q as a case-insensitive substring of title or description.
func (r *ProductRepository) Search(ctx context.Context, q string) ([]domain.Product, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"

	var products []domain.Product
	err := r.db.WithContext(ctx).
		Preload("SKUs").
		Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", pattern, pattern).
		Order("title asc").
		Find(&products).Error
	return products, err
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Categories lists the distinct non-empty categories in name order.
func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("category <> ''").
		Distinct("category").
		Order("category asc").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Preload("SKUs").Where("slug = ?", slug).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Preload("SKUs").First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// ResolvePrices returns the current unit price of every id. A product that no
// longer exists is an error, never a zero price.
func (r *ProductRepository) ResolvePrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).
		Select("id", "price").
		Where("id IN ?", ids).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	prices := make(map[uuid.UUID]decimal.Decimal, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}
	for _, id := range ids {
		if _, ok := prices[id]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
		}
	}
	return prices, nil
}

// Upsert inserts or refreshes a product by slug together with its SKUs. SKUs
// without an id get one derived from product id, size and color so that a
// reseed keeps cart variant references valid.
func (r *ProductRepository) Upsert(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Product
		err := tx.Where("slug = ?", product.Slug).First(&existing).Error
		switch {
		case err == nil:
			product.ID = existing.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			if product.ID == uuid.Nil {
				product.ID = uuid.New()
			}
		default:
			return err
		}

		skus := product.SKUs
		product.SKUs = nil
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description", "price", "rarity_tier", "category", "updated_at"}),
		}).Create(product).Error
		if err != nil {
			return err
		}

		for i := range skus {
			skus[i].ProductID = product.ID
			if skus[i].ID == uuid.Nil {
				skus[i].ID = uuid.NewSHA1(product.ID, []byte(skus[i].Size+"|"+skus[i].Color))
			}
		}
		if len(skus) > 0 {
			err = tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&skus).Error
			if err != nil {
				return err
			}
		}
		product.SKUs = skus
		return nil
	})
}

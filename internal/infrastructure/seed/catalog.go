package seed

import (
	"fmt"
	"io"
	"os"

	"github.com/waste3d/lootshop-api/internal/domain"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Products []productEntry `yaml:"products"`
}

type productEntry struct {
	Slug        string     `yaml:"slug"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Price       string     `yaml:"price"`
	Rarity      string     `yaml:"rarity"`
	Category    string     `yaml:"category"`
	SKUs        []skuEntry `yaml:"skus"`
}

type skuEntry struct {
	Size  string `yaml:"size"`
	Color string `yaml:"color"`
	Stock int    `yaml:"stock"`
}

func LoadCatalogFile(path string) ([]domain.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCatalog(f)
}

// LoadCatalog parses a catalog document. Prices are decimal strings so that
// "249.99" is never rounded through a float.
func LoadCatalog(r io.Reader) ([]domain.Product, error) {
	var doc catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	products := make([]domain.Product, 0, len(doc.Products))
	for i, e := range doc.Products {
		price, err := decimal.NewFromString(e.Price)
		if err != nil {
			return nil, fmt.Errorf("product #%d (%s): bad price %q: %w", i, e.Slug, e.Price, err)
		}
		rarity := domain.RarityTier(e.Rarity)
		if rarity == "" {
			rarity = domain.RarityCommon
		}
		if !rarity.Valid() {
			return nil, fmt.Errorf("product #%d (%s): unknown rarity %q", i, e.Slug, e.Rarity)
		}

		p := domain.Product{
			Slug:        e.Slug,
			Title:       e.Title,
			Description: e.Description,
			Price:       price,
			RarityTier:  rarity,
			Category:    e.Category,
		}
		for _, s := range e.SKUs {
			p.SKUs = append(p.SKUs, domain.SKU{Size: s.Size, Color: s.Color, StockQuantity: s.Stock})
		}
		products = append(products, p)
	}
	return products, nil
}

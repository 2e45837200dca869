package handlers

import (
	"net/http"
	"strings"

	"github.com/waste3d/lootshop-api/internal/domain"

	"github.com/gin-gonic/gin"
)

// GET /api/v1/products?category=&rarity=
func (h *Handler) ListProducts(c *gin.Context) {
	rarity := domain.RarityTier(strings.ToUpper(c.Query("rarity")))
	products, err := h.uc.Catalog.ListProducts(c, c.Query("category"), rarity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": productViews(products)})
}

// GET /api/v1/products/search?q=
func (h *Handler) SearchProducts(c *gin.Context) {
	products, err := h.uc.Catalog.SearchProducts(c, c.Query("q"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": productViews(products)})
}

// GET /api/v1/products/:slug
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.uc.Catalog.GetProduct(c, c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductView(product))
}

// GET /api/v1/categories
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.uc.Catalog.ListCategories(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

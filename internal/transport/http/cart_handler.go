package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GET /api/v1/cart
func (h *Handler) GetCart(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	items, err := h.uc.Cart.GetCart(c, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type addToCartReq struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	VariantID string `json:"variant_id"`
	Quantity  *int   `json:"quantity"`
}

// POST /api/v1/cart/items
func (h *Handler) AddToCart(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	var req addToCartReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	productID := uuid.MustParse(req.ProductID)
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	res, err := h.uc.Cart.AddToCart(c, userID, productID, req.VariantID, quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type updateQuantityReq struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// PATCH /api/v1/cart/items/:id
func (h *Handler) UpdateCartItem(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req updateQuantityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.uc.Cart.UpdateQuantity(c, userID, itemID, *req.Quantity); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DELETE /api/v1/cart/items/:id
func (h *Handler) RemoveCartItem(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.uc.Cart.RemoveFromCart(c, userID, itemID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DELETE /api/v1/cart
func (h *Handler) ClearCart(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	if err := h.uc.Cart.ClearCart(c, userID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

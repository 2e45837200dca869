package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// POST /api/v1/orders
func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	res, err := h.uc.Checkout.CreateOrder(c, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCheckoutView(res))
}

// GET /api/v1/orders
func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	orders, err := h.uc.Checkout.ListOrders(c, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orderViews(orders)})
}

// GET /api/v1/orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.uc.Checkout.GetOrder(c, userID, orderID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderView(order))
}

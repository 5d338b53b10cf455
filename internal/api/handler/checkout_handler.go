package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"clubedoebook/internal/api/dto"
	"clubedoebook/internal/api/service"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
}

func NewCheckoutHandler(checkout service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkout", h.StartCheckout)
	rg.GET("/orders", h.ListOrders)
	rg.GET("/orders/:id", h.GetOrder)
}

func (h *CheckoutHandler) StartCheckout(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.StartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The payment client retries on transient errors, so allow more than the
	// usual request timeout here
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	resp, err := h.checkout.StartCheckout(ctx, userID.(string), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCheckout),
			errors.Is(err, service.ErrNothingToPay):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrEbookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "ebook not found"})
		case errors.Is(err, service.ErrBundleNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "bundle not found"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to start checkout"})
		}
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetOrder reads one order; a pending order is reconciled against the
// payment processor before it is returned.
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	order, err := h.checkout.GetOrder(ctx, userID.(string), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.checkout.ListOrders(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": orders, "total": len(orders)})
}

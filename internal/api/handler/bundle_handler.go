package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"clubedoebook/internal/api/service"

	"github.com/gin-gonic/gin"
)

type BundleHandler struct {
	catalog service.CatalogService
}

func NewBundleHandler(catalog service.CatalogService) *BundleHandler {
	return &BundleHandler{catalog: catalog}
}

func (h *BundleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.GET("/:slug", h.GetBySlug)
}

func (h *BundleHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	bundles, err := h.catalog.ListBundles(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bundles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": bundles, "total": len(bundles)})
}

func (h *BundleHandler) GetBySlug(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	bundle, err := h.catalog.GetBundle(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrBundleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "bundle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bundle"})
		return
	}
	c.JSON(http.StatusOK, bundle)
}

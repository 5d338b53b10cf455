package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"clubedoebook/internal/api/dto"
	"clubedoebook/internal/api/middleware"
	"clubedoebook/internal/api/service"

	"github.com/gin-gonic/gin"
)

type EbookHandler struct {
	catalog      service.CatalogService
	gamification service.GamificationService
}

func NewEbookHandler(catalog service.CatalogService, gamification service.GamificationService) *EbookHandler {
	return &EbookHandler{catalog: catalog, gamification: gamification}
}

// RegisterRoutes mounts the public catalog; auth-only routes are mounted by
// RegisterProtectedRoutes so browsing works without a token.
func (h *EbookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.GET("/:slug", h.GetBySlug)
}

func (h *EbookHandler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/:slug/download", h.Download)
	rg.POST("/:slug/complete", h.Complete)
}

// RegisterCreatorRoutes mounts the publishing surface for creator accounts.
func (h *EbookHandler) RegisterCreatorRoutes(rg *gin.RouterGroup) {
	rg.GET("/ebooks", h.ListOwn)
	rg.POST("/ebooks", h.Publish)
	rg.PATCH("/ebooks/:id", h.Update)
	rg.DELETE("/ebooks/:id", h.Unpublish)
}

func (h *EbookHandler) List(c *gin.Context) {
	var query dto.ListEbooksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page, err := h.catalog.List(ctx, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list ebooks"})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *EbookHandler) GetBySlug(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ebook, err := h.catalog.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrEbookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ebook not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load ebook"})
		return
	}
	c.JSON(http.StatusOK, ebook)
}

// Download hands out a short-lived file URL when the caller is entitled to
// the ebook, and counts the read.
func (h *EbookHandler) Download(c *gin.Context) {
	caps, ok := middleware.GetCapabilities(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ebook, err := h.catalog.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrEbookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ebook not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load ebook"})
		return
	}

	resp, err := h.catalog.Download(ctx, caps, ebook.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEbookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "ebook not found"})
		case errors.Is(err, service.ErrDownloadLocked):
			c.JSON(http.StatusForbidden, gin.H{"error": "purchase or premium subscription required"})
		case errors.Is(err, service.ErrDownloadOffline):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "downloads temporarily unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare download"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Complete marks the ebook finished for the caller and advances any
// certificate track containing it.
func (h *EbookHandler) Complete(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ebook, err := h.catalog.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrEbookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ebook not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load ebook"})
		return
	}

	if err := h.gamification.CompleteEbook(ctx, userID.(string), ebook.ID); err != nil {
		if errors.Is(err, service.ErrEbookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ebook not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record completion"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ebook completed"})
}

func (h *EbookHandler) ListOwn(c *gin.Context) {
	caps, ok := middleware.GetCapabilities(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ebooks, err := h.catalog.ListOwn(ctx, caps.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list ebooks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": ebooks, "total": len(ebooks)})
}

func (h *EbookHandler) Publish(c *gin.Context) {
	caps, ok := middleware.GetCapabilities(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.PublishEbookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ebook, err := h.catalog.Publish(ctx, caps.UserID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to publish ebook"})
		return
	}
	c.JSON(http.StatusCreated, ebook)
}

func (h *EbookHandler) Update(c *gin.Context) {
	caps, ok := middleware.GetCapabilities(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ebookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ebook id"})
		return
	}

	var req dto.UpdateEbookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ebook, err := h.catalog.Update(ctx, caps, ebookID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEbookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "ebook not found"})
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "ebook belongs to another creator"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update ebook"})
		}
		return
	}
	c.JSON(http.StatusOK, ebook)
}

func (h *EbookHandler) Unpublish(c *gin.Context) {
	caps, ok := middleware.GetCapabilities(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ebookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ebook id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.catalog.Unpublish(ctx, caps, ebookID); err != nil {
		switch {
		case errors.Is(err, service.ErrEbookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "ebook not found"})
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "ebook belongs to another creator"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unpublish ebook"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ebook unpublished"})
}

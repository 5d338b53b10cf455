package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"clubedoebook/internal/api/dto"
	"clubedoebook/internal/api/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratings service.RatingService
	catalog service.CatalogService
}

func NewRatingHandler(ratings service.RatingService, catalog service.CatalogService) *RatingHandler {
	return &RatingHandler{ratings: ratings, catalog: catalog}
}

// RegisterRoutes mounts the read side under the public catalog.
func (h *RatingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:slug/ratings", h.List)
	rg.GET("/:slug/ratings/summary", h.Summary)
}

func (h *RatingHandler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/:slug/ratings", h.Submit)
	rg.DELETE("/:slug/ratings", h.Delete)
}

// resolveEbookID maps the slug in the URL to the ebook's numeric id.
func (h *RatingHandler) resolveEbookID(ctx context.Context, c *gin.Context) (int64, bool) {
	ebook, err := h.catalog.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrEbookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ebook not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load ebook"})
		}
		return 0, false
	}
	return ebook.ID, true
}

func (h *RatingHandler) Submit(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ebookID, ok := h.resolveEbookID(ctx, c)
	if !ok {
		return
	}

	rating, err := h.ratings.Submit(ctx, userID.(string), ebookID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save rating"})
		return
	}
	c.JSON(http.StatusOK, rating)
}

func (h *RatingHandler) Delete(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ebookID, ok := h.resolveEbookID(ctx, c)
	if !ok {
		return
	}

	if err := h.ratings.Delete(ctx, userID.(string), ebookID); err != nil {
		if errors.Is(err, service.ErrRatingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rating not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete rating"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rating deleted"})
}

func (h *RatingHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ebookID, ok := h.resolveEbookID(ctx, c)
	if !ok {
		return
	}

	list, err := h.ratings.ListForEbook(ctx, ebookID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list ratings"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *RatingHandler) Summary(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ebookID, ok := h.resolveEbookID(ctx, c)
	if !ok {
		return
	}

	summary, err := h.ratings.Summary(ctx, ebookID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rating summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

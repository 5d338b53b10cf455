package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"clubedoebook/internal/api/service"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	favorites service.FavoriteService
}

func NewFavoriteHandler(favorites service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

func (h *FavoriteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.POST("/", h.Add)
	rg.DELETE("/:ebook_id", h.Remove)
}

type addFavoriteRequest struct {
	EbookID int64 `json:"ebook_id" binding:"required"`
}

func (h *FavoriteHandler) Add(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req addFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.favorites.Add(ctx, userID.(string), req.EbookID); err != nil {
		if errors.Is(err, service.ErrEbookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ebook not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add favorite"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "ebook added to favorites"})
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ebookID, err := strconv.ParseInt(c.Param("ebook_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ebook_id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.favorites.Remove(ctx, userID.(string), ebookID); err != nil {
		if errors.Is(err, service.ErrNotFavorited) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ebook not in favorites"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove favorite"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ebook removed from favorites"})
}

func (h *FavoriteHandler) List(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ebooks, err := h.favorites.List(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list favorites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": ebooks, "total": len(ebooks)})
}

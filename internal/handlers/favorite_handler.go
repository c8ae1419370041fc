package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"afisha/internal/services"
)

type FavoriteHandler struct {
	Service services.FavoriteService
}

func NewFavoriteHandler(service services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{Service: service}
}

func (h *FavoriteHandler) List(c *gin.Context) {
	favorites, err := h.Service.List(getUserID(c))
	if err != nil {
		log.Printf("[favorite][list] err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list favorites"})
		return
	}
	c.JSON(http.StatusOK, favorites)
}

func (h *FavoriteHandler) Add(c *gin.Context) {
	var req struct {
		Event int64 `json:"event" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	favorite, err := h.Service.Add(getUserID(c), req.Event)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound),
			errors.Is(err, services.ErrAlreadyFavorite):
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		default:
			log.Printf("[favorite][add] event_id=%d err=%v", req.Event, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add favorite"})
		}
		return
	}
	c.JSON(http.StatusCreated, favorite)
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	var req struct {
		EventID int64 `json:"event_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.Remove(getUserID(c), req.EventID); err != nil {
		if errors.Is(err, services.ErrFavoriteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
			return
		}
		log.Printf("[favorite][remove] event_id=%d err=%v", req.EventID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
		return
	}
	c.Status(http.StatusNoContent)
}

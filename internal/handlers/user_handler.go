package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"afisha/internal/services"
)

type UserHandler struct {
	Service  services.UserService
	PageSize int
}

func NewUserHandler(service services.UserService, pageSize int) *UserHandler {
	return &UserHandler{Service: service, PageSize: pageSize}
}

func (h *UserHandler) CurrentUser(c *gin.Context) {
	user, err := h.Service.GetByID(getUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
			return
		}
		log.Printf("[user][current] err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateCurrentUser(c *gin.Context) {
	var upd services.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Service.UpdateProfile(getUserID(c), &upd)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
			return
		}
		log.Printf("[user][update] err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// List — активные пользователи; ?competences=a&competences=b отбирает
// пользователей со всеми компетенциями.
func (h *UserHandler) List(c *gin.Context) {
	limit, offset := getPageParams(c, h.PageSize)
	users, total, err := h.Service.List(c.QueryArray("competences"), limit, offset)
	if err != nil {
		log.Printf("[user][list] err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, paged(total, users))
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	user, err := h.Service.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
			return
		}
		log.Printf("[user][get] id=%d err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"afisha/internal/services"
)

type EventHandler struct {
	Service  services.EventService
	PageSize int
}

func NewEventHandler(service services.EventService, pageSize int) *EventHandler {
	return &EventHandler{Service: service, PageSize: pageSize}
}

// List — актуальные события; ?tags=a&tags=b отбирает события со всеми тегами.
func (h *EventHandler) List(c *gin.Context) {
	limit, offset := getPageParams(c, h.PageSize)
	events, total, err := h.Service.List(c.QueryArray("tags"), limit, offset)
	if err != nil {
		log.Printf("[event][list] err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list events"})
		return
	}
	c.JSON(http.StatusOK, paged(total, events))
}

func (h *EventHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	event, err := h.Service.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
			return
		}
		log.Printf("[event][get] id=%d err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get event"})
		return
	}
	c.JSON(http.StatusOK, event)
}

// Join — заявка на участие. Повторный join той же пары отклоняется.
func (h *EventHandler) Join(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	if err := h.Service.Join(getUserID(c), id); err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		case errors.Is(err, services.ErrAlreadyJoined):
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		default:
			log.Printf("[event][join] event_id=%d err=%v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join event"})
		}
		return
	}
	c.Status(http.StatusCreated)
}

func (h *EventHandler) Leave(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	if err := h.Service.Leave(getUserID(c), id); err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		case errors.Is(err, services.ErrNotJoined):
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		default:
			log.Printf("[event][leave] event_id=%d err=%v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave event"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// Participants — участники события без фильтра по дате: прошедшие
// события сохраняют список.
func (h *EventHandler) Participants(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	limit, offset := getPageParams(c, h.PageSize)
	users, total, err := h.Service.Participants(id, limit, offset)
	if err != nil {
		log.Printf("[event][participants] event_id=%d err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list participants"})
		return
	}
	c.JSON(http.StatusOK, paged(total, users))
}

// UserEvents — будущие события, в которых участвует пользователь.
func (h *EventHandler) UserEvents(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	limit, offset := getPageParams(c, h.PageSize)
	events, total, err := h.Service.UpcomingForUser(id, limit, offset)
	if err != nil {
		log.Printf("[event][user-events] user_id=%d err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list user events"})
		return
	}
	c.JSON(http.StatusOK, paged(total, events))
}

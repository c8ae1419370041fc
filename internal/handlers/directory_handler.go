package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"afisha/internal/repositories"
)

// DirectoryHandler — справочники: города, теги, компетенции.
type DirectoryHandler struct {
	Repo repositories.DirectoryRepository
}

func NewDirectoryHandler(repo repositories.DirectoryRepository) *DirectoryHandler {
	return &DirectoryHandler{Repo: repo}
}

func (h *DirectoryHandler) Cities(c *gin.Context) {
	cities, err := h.Repo.ListCities()
	if err != nil {
		log.Printf("[directory][cities] err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list cities"})
		return
	}
	c.JSON(http.StatusOK, cities)
}

func (h *DirectoryHandler) Tags(c *gin.Context) {
	tags, err := h.Repo.ListTags()
	if err != nil {
		log.Printf("[directory][tags] err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tags"})
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *DirectoryHandler) Competences(c *gin.Context) {
	competences, err := h.Repo.ListCompetences()
	if err != nil {
		log.Printf("[directory][competences] err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list competences"})
		return
	}
	c.JSON(http.StatusOK, competences)
}

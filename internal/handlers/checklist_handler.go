package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"windpermit/internal/models"
	"windpermit/internal/services"
)

type ChecklistHandler struct {
	Service *services.ChecklistService
}

func NewChecklistHandler(service *services.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{Service: service}
}

func (h *ChecklistHandler) Sections(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sections": h.Service.Sections()})
}

// Upload — загрузка заполненной секции регламентного чек-листа.
func (h *ChecklistHandler) Upload(c *gin.Context) {
	section := c.Param("section")

	var req struct {
		Items []models.ChecklistItem `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upload, err := h.Service.Upload(section, req.Items)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownSection):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, upload)
}

func (h *ChecklistHandler) Latest(c *gin.Context) {
	section := c.Param("section")

	upload, err := h.Service.Latest(section)
	if err != nil {
		if errors.Is(err, services.ErrUnknownSection) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if upload == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no upload for this section"})
		return
	}
	c.JSON(http.StatusOK, upload)
}

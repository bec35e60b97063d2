package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"windpermit/internal/models"
)

type AuditReader interface {
	ListRecent(limit int) ([]*models.AuditEntry, error)
}

// AuditHandler — чтение журнала верификаций и сводных отправок.
type AuditHandler struct {
	Repo AuditReader
}

func NewAuditHandler(repo AuditReader) *AuditHandler {
	return &AuditHandler{Repo: repo}
}

func (h *AuditHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 500 {
		limit = 50
	}

	entries, err := h.Repo.ListRecent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve audit log", "debug": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

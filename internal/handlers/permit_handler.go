package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"windpermit/internal/authz"
	"windpermit/internal/models"
	"windpermit/internal/pdf"
	"windpermit/internal/services"
)

type PermitHandler struct {
	Service  *services.PermitService
	Workflow *services.WorkflowService
	PDF      pdf.Generator
}

func NewPermitHandler(service *services.PermitService, workflow *services.WorkflowService, gen pdf.Generator) *PermitHandler {
	return &PermitHandler{Service: service, Workflow: workflow, PDF: gen}
}

// @Summary      Отправить наряд-допуск
// @Tags         Permits
// @Accept       json
// @Produce      json
// @Param        draft  body      models.PermitDraft  true  "черновик наряда"
// @Success      201    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      409    {object}  map[string]string
// @Router       /permits [post]
func (h *PermitHandler) Submit(c *gin.Context) {
	var draft models.PermitDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	permit, err := h.Workflow.Submit(c.Request.Context(), draft)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrTeamUnverified):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAllocation):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"permitNumber": permit.Number, "status": permit.Status})
}

// RecordDraft — сводная отправка формы с предпоследнего экрана (журнал).
func (h *PermitHandler) RecordDraft(c *gin.Context) {
	var draft models.PermitDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Workflow.RecordDraft(draft); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "draft recorded"})
}

func (h *PermitHandler) Ongoing(c *gin.Context) {
	permits, err := h.Service.ListOngoing()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve permits", "debug": err.Error()})
		return
	}
	c.JSON(http.StatusOK, permits)
}

func (h *PermitHandler) Pending(c *gin.Context) {
	permits, err := h.Service.ListPending()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve permits", "debug": err.Error()})
		return
	}
	c.JSON(http.StatusOK, permits)
}

// History — keyset-пагинация: клиент передаёт курсор из прошлого ответа.
func (h *PermitHandler) History(c *gin.Context) {
	sizeStr := c.DefaultQuery("size", "5")
	size, _ := strconv.Atoi(sizeStr)
	if size < 1 {
		size = 5
	}
	cursor := c.Query("cursor")

	permits, next, err := h.Service.ListHistory(size, cursor)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve history", "debug": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"permits": permits, "nextCursor": next})
}

// PendingStream — live-подписка: текущая очередь, затем added/removed
// по мере смены статусов (SSE).
func (h *PermitHandler) PendingStream(c *gin.Context) {
	pending, err := h.Service.ListPending()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve permits", "debug": err.Error()})
		return
	}

	ch, cancel := h.Service.Hub.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	for _, p := range pending {
		c.SSEvent("permit", models.PermitEvent{Type: models.PermitEventAdded, Permit: *p})
	}
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			c.SSEvent("permit", ev)
			c.Writer.Flush()
		}
	}
}

func (h *PermitHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	permit, err := h.Service.GetByNumber(number)
	if err != nil {
		if errors.Is(err, services.ErrPermitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "permit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, permit)
}

// --- UpdateStatus ---
type updatePermitStatusRequest struct {
	To string `json:"to" binding:"required"`
}

func (h *PermitHandler) UpdateStatus(c *gin.Context) {
	number := c.Param("number")

	var req updatePermitStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// accept/reject — решение менеджера; close/cancel доступны всем
	_, role := getEmailAndRole(c)
	if (req.To == models.StatusAccepted || req.To == models.StatusRejected) && !authz.CanDecide(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "manager role required"})
		return
	}

	updated, err := h.Service.UpdateStatus(number, req.To)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPermitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "permit not found"})
		case errors.Is(err, services.ErrInvalidTransition):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DownloadPDF — печатная форма наряда из денормализованного снимка.
func (h *PermitHandler) DownloadPDF(c *gin.Context) {
	number := c.Param("number")
	snap, err := h.Service.GetSnapshot(number)
	if err != nil {
		if errors.Is(err, services.ErrPermitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "permit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	path, err := h.PDF.GeneratePermit(snap)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "pdf generation failed", "debug": err.Error()})
		return
	}
	c.FileAttachment(path, "permit_"+number+".pdf")
}

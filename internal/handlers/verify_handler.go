package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"windpermit/internal/services"
)

type VerifyHandler struct {
	Verif    *services.VerificationService
	Workflow *services.WorkflowService
}

func NewVerifyHandler(verif *services.VerificationService, workflow *services.WorkflowService) *VerifyHandler {
	return &VerifyHandler{Verif: verif, Workflow: workflow}
}

// @Summary      Отправить код подтверждения на email
// @Tags         Verification
// @Accept       json
// @Produce      json
// @Param        request  body      object  true  "email"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]interface{}
// @Failure      500      {object}  map[string]interface{}
// @Router       /sendVerificationEmail [post]
func (h *VerifyHandler) SendVerificationEmail(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Name  string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	// код в ответ не попадает: только в письмо
	if err := h.Verif.IssueCode(req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Verification email sent!"})
}

// @Summary      Проверить код подтверждения
// @Tags         Verification
// @Accept       json
// @Produce      json
// @Param        request  body      object  true  "email и verificationCode"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]interface{}
// @Router       /verifyCode [post]
func (h *VerifyHandler) VerifyCode(c *gin.Context) {
	var req struct {
		Email            string `json:"email" binding:"required,email"`
		VerificationCode string `json:"verificationCode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := h.Verif.CheckCode(req.Email, req.VerificationCode); err != nil {
		switch {
		case errors.Is(err, services.ErrVerificationNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No record found for this email."})
		case errors.Is(err, services.ErrCodeMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid verification code."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "verification failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email verified successfully!"})
}

// VerifyEngineer — тот же код, но с записью в журнал верификаций команды.
func (h *VerifyHandler) VerifyEngineer(c *gin.Context) {
	var req struct {
		Name             string `json:"name" binding:"required"`
		Email            string `json:"email" binding:"required,email"`
		VerificationCode string `json:"verificationCode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := h.Workflow.VerifyEngineer(req.Name, req.Email, req.VerificationCode); err != nil {
		switch {
		case errors.Is(err, services.ErrVerificationNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No record found for this email."})
		case errors.Is(err, services.ErrCodeMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid verification code."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "verification failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Engineer verified successfully!"})
}

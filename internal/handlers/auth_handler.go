package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"windpermit/internal/authz"
	"windpermit/internal/models"
	"windpermit/internal/services"
)

type AuthHandler struct {
	Verif     *services.VerificationService
	Auth      *services.AuthService
	IsManager func(email string) bool
}

func NewAuthHandler(verif *services.VerificationService, auth *services.AuthService, isManager func(string) bool) *AuthHandler {
	return &AuthHandler{Verif: verif, Auth: auth, IsManager: isManager}
}

// @Summary      Вход по коду из письма
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "email и код"
// @Success      200    {object}  map[string]interface{}
// @Failure      401    {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.TrimSpace(req.Email)
	log.Printf("[auth][login] attempt email=%q", email)

	if err := h.Verif.CheckCode(email, req.VerificationCode); err != nil {
		if errors.Is(err, services.ErrVerificationNotFound) || errors.Is(err, services.ErrCodeMismatch) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or verification code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	role := authz.RoleEmployee
	if h.IsManager != nil && h.IsManager(email) {
		role = authz.RoleManager
	}

	token, err := h.Auth.IssueToken(email, role)
	if err != nil {
		log.Printf("[auth][login] token issue failed email=%q err=%v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	log.Printf("[auth][login] OK email=%q role=%s", email, role)
	c.JSON(http.StatusOK, gin.H{"token": token, "role": role})
}

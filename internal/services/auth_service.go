package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"windpermit/internal/middleware"
)

// AuthService — выпуск access-токена после подтверждения кода из письма.
// Пары логин/пароль нет: вход — это и есть email-верификация.
type AuthService struct {
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{secret: []byte(secret), tokenTTL: tokenTTL}
}

func (s *AuthService) IssueToken(email, role string) (string, error) {
	now := time.Now()
	claims := &middleware.Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

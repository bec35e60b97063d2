package models

import "time"

// VerificationRecord — одна активная запись на email. Повторная отправка
// перезаписывает хэш кода и сбрасывает Verified. Сам код не храним.
type VerificationRecord struct {
	Email    string    `json:"email"`
	CodeHash string    `json:"-"`
	Verified bool      `json:"verified"`
	IssuedAt time.Time `json:"issuedAt"`
}

type LoginRequest struct {
	Email            string `json:"email"`
	VerificationCode string `json:"verificationCode"`
}

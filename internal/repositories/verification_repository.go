package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"windpermit/internal/models"
)

type VerificationRepository struct {
	DB *sql.DB
}

func NewVerificationRepository(db *sql.DB) *VerificationRepository {
	return &VerificationRepository{DB: db}
}

// Upsert — на email всегда одна активная запись: повторная отправка
// перезаписывает хэш кода и сбрасывает verified.
func (r *VerificationRepository) Upsert(email, codeHash string, issuedAt time.Time) error {
	const q = `
		INSERT INTO verifications (email, code_hash, verified, issued_at)
		VALUES ($1, $2, FALSE, $3)
		ON CONFLICT (email) DO UPDATE
		SET code_hash = EXCLUDED.code_hash, verified = FALSE, issued_at = EXCLUDED.issued_at
	`
	if _, err := r.DB.Exec(q, email, codeHash, issuedAt); err != nil {
		return fmt.Errorf("verification upsert: %w", err)
	}
	return nil
}

func (r *VerificationRepository) GetByEmail(email string) (*models.VerificationRecord, error) {
	const q = `
		SELECT email, code_hash, verified, issued_at
		FROM verifications
		WHERE email = $1
	`
	row := r.DB.QueryRow(q, email)
	var v models.VerificationRecord
	if err := row.Scan(&v.Email, &v.CodeHash, &v.Verified, &v.IssuedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("verification get: %w", err)
	}
	return &v, nil
}

func (r *VerificationRepository) MarkVerified(email string) error {
	if _, err := r.DB.Exec(`UPDATE verifications SET verified=TRUE WHERE email=$1`, email); err != nil {
		return fmt.Errorf("verification mark: %w", err)
	}
	return nil
}

package repositories

import (
	"database/sql"
	"fmt"

	"windpermit/internal/models"
)

// AuditRepository — append-only журнал верификаций и сводных отправок
// (бывшая коллекция permitlist). Записи никогда не изменяются.
type AuditRepository struct {
	DB *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{DB: db}
}

func (r *AuditRepository) Append(e *models.AuditEntry) (int64, error) {
	const q = `
		INSERT INTO permit_audit (kind, name, email, verified, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var payload interface{}
	if len(e.Payload) > 0 {
		payload = []byte(e.Payload)
	}
	var id int64
	if err := r.DB.QueryRow(q, e.Kind, e.Name, e.Email, e.Verified, payload, e.CreatedAt).Scan(&id); err != nil {
		return 0, fmt.Errorf("audit append: %w", err)
	}
	return id, nil
}

func (r *AuditRepository) ListRecent(limit int) ([]*models.AuditEntry, error) {
	const q = `
		SELECT id, kind, name, email, verified, payload, created_at
		FROM permit_audit
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.DB.Query(q, limit)
	if err != nil {
		return nil, fmt.Errorf("audit list: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditEntry
	for rows.Next() {
		var (
			e       models.AuditEntry
			payload sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Kind, &e.Name, &e.Email, &e.Verified, &payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit scan: %w", err)
		}
		if payload.Valid {
			e.Payload = []byte(payload.String)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

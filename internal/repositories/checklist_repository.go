package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"windpermit/internal/models"
)

type ChecklistRepository struct {
	DB *sql.DB
}

func NewChecklistRepository(db *sql.DB) *ChecklistRepository {
	return &ChecklistRepository{DB: db}
}

// SaveUpload — один снимок секции на загрузку (бывший checklistData).
func (r *ChecklistRepository) SaveUpload(u *models.ChecklistUpload) (int64, error) {
	items, err := json.Marshal(u.Items)
	if err != nil {
		return 0, fmt.Errorf("checklist marshal: %w", err)
	}
	const q = `
		INSERT INTO checklist_uploads (section, items, complete, uploaded_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	if err := r.DB.QueryRow(q, u.Section, items, u.Complete, u.UploadedAt).Scan(&id); err != nil {
		return 0, fmt.Errorf("checklist save: %w", err)
	}
	return id, nil
}

// GetLatestBySection — последний загруженный снимок секции.
func (r *ChecklistRepository) GetLatestBySection(section string) (*models.ChecklistUpload, error) {
	const q = `
		SELECT id, section, items, complete, uploaded_at
		FROM checklist_uploads
		WHERE section = $1
		ORDER BY uploaded_at DESC
		LIMIT 1
	`
	var (
		u     models.ChecklistUpload
		items []byte
	)
	err := r.DB.QueryRow(q, section).Scan(&u.ID, &u.Section, &items, &u.Complete, &u.UploadedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checklist latest: %w", err)
	}
	if err := json.Unmarshal(items, &u.Items); err != nil {
		return nil, fmt.Errorf("checklist items: %w", err)
	}
	return &u, nil
}

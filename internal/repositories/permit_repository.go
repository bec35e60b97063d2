package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"windpermit/internal/models"
)

type PermitRepository struct {
	db *sql.DB
}

func NewPermitRepository(db *sql.DB) *PermitRepository {
	return &PermitRepository{db: db}
}

// Create — строка наряда + денормализованный снимок в одной транзакции.
func (r *PermitRepository) Create(p *models.Permit, snap *models.PermitSnapshot) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("создание наряда begin: %w", err)
	}
	defer tx.Rollback()

	const qPermit = `
		INSERT INTO permits (permit_no, status, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
	`
	if _, err := tx.Exec(qPermit, p.Number, p.Status, p.CreatedAt); err != nil {
		return fmt.Errorf("вставка наряда: %w", err)
	}

	form, _ := json.Marshal(snap.Draft.Form)
	ppe, _ := json.Marshal(snap.Draft.PPEChecklist)
	iso, _ := json.Marshal(snap.Draft.IsolationChecklist)
	eng, _ := json.Marshal(snap.Draft.Engineers)

	const qSnap = `
		INSERT INTO permit_snapshots (permit_no, sequence, form, ppe_checklist, isolation_checklist, engineers, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := tx.Exec(qSnap, snap.Number, snap.Sequence, form, ppe, iso, eng, snap.CreatedAt); err != nil {
		return fmt.Errorf("вставка снимка наряда: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("создание наряда commit: %w", err)
	}
	return nil
}

func (r *PermitRepository) GetByNumber(number string) (*models.Permit, error) {
	const q = `
		SELECT permit_no, status, created_at, updated_at
		FROM permits
		WHERE permit_no = $1
	`
	p := &models.Permit{}
	err := r.db.QueryRow(q, number).Scan(&p.Number, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("получение наряда: %w", err)
	}
	return p, nil
}

// UpdateStatus — false, если наряда с таким номером нет.
func (r *PermitRepository) UpdateStatus(number, status string, updatedAt time.Time) (bool, error) {
	const q = `UPDATE permits SET status = $1, updated_at = $2 WHERE permit_no = $3`
	res, err := r.db.Exec(q, status, updatedAt, number)
	if err != nil {
		return false, fmt.Errorf("обновление статуса наряда: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("проверка обновления статуса: %w", err)
	}
	return affected > 0, nil
}

func (r *PermitRepository) ListByStatus(status string) ([]*models.Permit, error) {
	const q = `
		SELECT permit_no, status, created_at, updated_at
		FROM permits
		WHERE status = $1
		ORDER BY updated_at DESC
	`
	rows, err := r.db.Query(q, status)
	if err != nil {
		return nil, fmt.Errorf("список нарядов по статусу: %w", err)
	}
	defer rows.Close()

	var permits []*models.Permit
	for rows.Next() {
		var p models.Permit
		if err := rows.Scan(&p.Number, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("чтение наряда: %w", err)
		}
		permits = append(permits, &p)
	}
	return permits, rows.Err()
}

// ListHistory — keyset-пагинация по (updated_at, permit_no) убыванию.
// Нулевой beforeAt означает первую страницу.
func (r *PermitRepository) ListHistory(statuses []string, limit int, beforeAt time.Time, beforeNo string) ([]*models.Permit, error) {
	query := `SELECT permit_no, status, created_at, updated_at
	          FROM permits
	          WHERE status = ANY($1)`
	args := []interface{}{pq.Array(statuses)}
	i := 2

	if !beforeAt.IsZero() {
		query += fmt.Sprintf(" AND (updated_at, permit_no) < ($%d, $%d)", i, i+1)
		args = append(args, beforeAt, beforeNo)
		i += 2
	}
	query += fmt.Sprintf(" ORDER BY updated_at DESC, permit_no DESC LIMIT $%d", i)
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("история нарядов: %w", err)
	}
	defer rows.Close()

	var permits []*models.Permit
	for rows.Next() {
		var p models.Permit
		if err := rows.Scan(&p.Number, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("чтение истории: %w", err)
		}
		permits = append(permits, &p)
	}
	return permits, rows.Err()
}

func (r *PermitRepository) GetSnapshot(number string) (*models.PermitSnapshot, error) {
	const q = `
		SELECT permit_no, sequence, form, ppe_checklist, isolation_checklist, engineers, created_at
		FROM permit_snapshots
		WHERE permit_no = $1
	`
	var (
		snap               models.PermitSnapshot
		form, ppe, iso, en []byte
	)
	err := r.db.QueryRow(q, number).Scan(&snap.Number, &snap.Sequence, &form, &ppe, &iso, &en, &snap.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("получение снимка наряда: %w", err)
	}

	if err := json.Unmarshal(form, &snap.Draft.Form); err != nil {
		return nil, fmt.Errorf("снимок: form: %w", err)
	}
	if err := json.Unmarshal(ppe, &snap.Draft.PPEChecklist); err != nil {
		return nil, fmt.Errorf("снимок: ppe: %w", err)
	}
	if err := json.Unmarshal(iso, &snap.Draft.IsolationChecklist); err != nil {
		return nil, fmt.Errorf("снимок: isolation: %w", err)
	}
	if err := json.Unmarshal(en, &snap.Draft.Engineers); err != nil {
		return nil, fmt.Errorf("снимок: engineers: %w", err)
	}
	return &snap, nil
}

package models

import (
	"encoding/json"
	"time"
)

const (
	AuditEngineerVerified = "engineer_verified"
	AuditDraftSubmitted   = "draft_submitted"
)

// AuditEntry — append-only журнал (бывшая коллекция permitlist):
// подтверждения инженеров и сводные отправки формы с предпоследнего экрана.
type AuditEntry struct {
	ID        int64           `json:"id"`
	Kind      string          `json:"kind"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Verified  bool            `json:"verified"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

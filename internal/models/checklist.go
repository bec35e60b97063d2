package models

import "time"

// Статусы пунктов регламентного чек-листа (отдельного от чек-листов наряда).
const (
	ItemStatusOK    = "OK"
	ItemStatusNotOK = "Not OK"
	ItemStatusOther = "Other"
)

type ChecklistItem struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Status         string `json:"status"`
	OtherStatus    string `json:"otherStatus,omitempty"`
	Remarks        string `json:"remarks"`
	UpdatedRemarks string `json:"updatedRemarks"`
}

// ChecklistUpload — загруженный снимок одной секции (бывший checklistData).
type ChecklistUpload struct {
	ID         int64           `json:"id"`
	Section    string          `json:"section"`
	Items      []ChecklistItem `json:"items"`
	Complete   bool            `json:"complete"`
	UploadedAt time.Time       `json:"uploadedAt"`
}

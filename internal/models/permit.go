package models

import "time"

// Статусы наряда-допуска. Допустимые переходы — в services.PermitTransitions.
const (
	StatusPending   = "Pending"
	StatusAccepted  = "Accepted"
	StatusClosed    = "Closed"
	StatusCancelled = "Cancelled"
	StatusRejected  = "Rejected"
)

type Permit struct {
	Number    string    `json:"permitNumber"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FormData — первая страница формы. Свободный текст, не нормализуется.
type FormData struct {
	Name              string `json:"name"`
	NumberOfPersons   string `json:"numberOfPersons"`
	DescriptionOfWork string `json:"descriptionOfWork"`
	Site              string `json:"site"`
	Model             string `json:"model"`
	Location          string `json:"location"`
	WorkArea          string `json:"workArea"`
	WindSpeed         string `json:"windSpeed"`
	SWMSProvided      string `json:"swmsProvided"`
}

type Engineer struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

// PermitDraft — агрегат, собираемый по трём шагам мастера. Передаётся
// по значению через workflow и сохраняется только после выделения номера.
type PermitDraft struct {
	Form               FormData        `json:"form"`
	PPEChecklist       map[string]bool `json:"ppeChecklist"`
	IsolationChecklist map[string]bool `json:"isolationChecklist"`
	Engineers          []Engineer      `json:"engineers"`
}

// PermitSnapshot — денормализованная копия всего, из чего создан наряд
// (бывшая коллекция permits_generated).
type PermitSnapshot struct {
	Number    string      `json:"permitNumber"`
	Sequence  int         `json:"sequence"`
	Draft     PermitDraft `json:"draft"`
	CreatedAt time.Time   `json:"createdAt"`
}

// PermitEvent — событие для live-подписки на pending-наряды.
const (
	PermitEventAdded   = "added"
	PermitEventRemoved = "removed"
)

type PermitEvent struct {
	Type   string `json:"type"`
	Permit Permit `json:"permit"`
}

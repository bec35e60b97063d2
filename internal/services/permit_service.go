package services

import (
	"encoding/base64"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"windpermit/internal/models"
	"windpermit/internal/realtime"
)

// Статусы, попадающие в историю (ongoing показывается отдельно).
var historyStatuses = []string{
	models.StatusClosed,
	models.StatusCancelled,
	models.StatusRejected,
	models.StatusPending,
}

type PermitStore interface {
	Create(p *models.Permit, snap *models.PermitSnapshot) error
	GetByNumber(number string) (*models.Permit, error)
	UpdateStatus(number, status string, updatedAt time.Time) (bool, error)
	ListByStatus(status string) ([]*models.Permit, error)
	ListHistory(statuses []string, limit int, beforeAt time.Time, beforeNo string) ([]*models.Permit, error)
	GetSnapshot(number string) (*models.PermitSnapshot, error)
}

// PendingNotifier — внешнее оповещение менеджеров о новом pending-наряде.
type PendingNotifier interface {
	NotifyPendingPermit(p *models.Permit) error
}

// PermitService — владелец жизненного цикла наряда: создание в Pending,
// охраняемые переходы статусов, запросы списков, рассылка событий.
type PermitService struct {
	Repo     PermitStore
	Hub      *realtime.PermitHub
	Mailer   EmailService    // может быть nil
	Notifier PendingNotifier // может быть nil
}

func NewPermitService(repo PermitStore, hub *realtime.PermitHub, mailer EmailService, notifier PendingNotifier) *PermitService {
	return &PermitService{Repo: repo, Hub: hub, Mailer: mailer, Notifier: notifier}
}

// CreatePending — наряд всегда рождается сразу в Pending; номер после
// создания неизменяем.
func (s *PermitService) CreatePending(number string, seq int, draft models.PermitDraft, now time.Time) (*models.Permit, error) {
	p := &models.Permit{
		Number:    number,
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	snap := &models.PermitSnapshot{
		Number:    number,
		Sequence:  seq,
		Draft:     draft,
		CreatedAt: now,
	}
	if err := s.Repo.Create(p, snap); err != nil {
		return nil, err
	}

	if s.Hub != nil {
		s.Hub.Publish(models.PermitEvent{Type: models.PermitEventAdded, Permit: *p})
	}
	if s.Notifier != nil {
		if err := s.Notifier.NotifyPendingPermit(p); err != nil {
			// оповещение не должно валить уже созданный наряд
			log.Printf("[permit][notify] warning: %v", err)
		}
	}
	return p, nil
}

// UpdateStatus — переход только по таблице PermitTransitions.
func (s *PermitService) UpdateStatus(number, to string) (*models.Permit, error) {
	current, err := s.Repo.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrPermitNotFound
	}
	if !canTransition(current.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, to)
	}

	now := time.Now()
	ok, err := s.Repo.UpdateStatus(number, to, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPermitNotFound
	}

	updated := &models.Permit{
		Number:    number,
		Status:    to,
		CreatedAt: current.CreatedAt,
		UpdatedAt: now,
	}

	// Pending-подписчики видят уход наряда из очереди.
	if s.Hub != nil && current.Status == models.StatusPending {
		s.Hub.Publish(models.PermitEvent{Type: models.PermitEventRemoved, Permit: *updated})
	}

	if to == models.StatusAccepted || to == models.StatusRejected {
		s.notifyDecision(updated)
	}
	return updated, nil
}

// Решение менеджера рассылаем инженерам из снимка; ошибки почты не
// откатывают переход.
func (s *PermitService) notifyDecision(p *models.Permit) {
	if s.Mailer == nil {
		return
	}
	snap, err := s.Repo.GetSnapshot(p.Number)
	if err != nil || snap == nil {
		log.Printf("[permit][decision] snapshot lookup failed: permit=%s err=%v", p.Number, err)
		return
	}
	for _, eng := range snap.Draft.Engineers {
		if err := s.Mailer.SendPermitDecision(eng.Email, p.Number, p.Status); err != nil {
			log.Printf("[permit][decision] warning: email to %s failed: %v", eng.Email, err)
		}
	}
}

func (s *PermitService) GetByNumber(number string) (*models.Permit, error) {
	p, err := s.Repo.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPermitNotFound
	}
	return p, nil
}

func (s *PermitService) GetSnapshot(number string) (*models.PermitSnapshot, error) {
	snap, err := s.Repo.GetSnapshot(number)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrPermitNotFound
	}
	return snap, nil
}

func (s *PermitService) ListOngoing() ([]*models.Permit, error) {
	return s.Repo.ListByStatus(models.StatusAccepted)
}

func (s *PermitService) ListPending() ([]*models.Permit, error) {
	return s.Repo.ListByStatus(models.StatusPending)
}

// ListHistory — страница истории и курсор следующей; пустой курсор
// результата означает конец выборки.
func (s *PermitService) ListHistory(pageSize int, cursor string) ([]*models.Permit, string, error) {
	if pageSize < 1 {
		pageSize = 5
	}

	var (
		beforeAt time.Time
		beforeNo string
	)
	if cursor != "" {
		var err error
		beforeAt, beforeNo, err = decodeHistoryCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("%w: bad cursor", ErrValidation)
		}
	}

	permits, err := s.Repo.ListHistory(historyStatuses, pageSize, beforeAt, beforeNo)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(permits) == pageSize {
		next = encodeHistoryCursor(permits[len(permits)-1])
	}
	return permits, next, nil
}

// Курсор непрозрачен для клиента: base64 от ключа сортировки последней
// записи страницы.
func encodeHistoryCursor(p *models.Permit) string {
	raw := fmt.Sprintf("%d|%s", p.UpdatedAt.UnixNano(), p.Number)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeHistoryCursor(cursor string) (time.Time, string, error) {
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", err
	}
	parts := strings.SplitN(string(b), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", fmt.Errorf("malformed cursor")
	}
	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, "", err
	}
	return time.Unix(0, nanos), parts[1], nil
}

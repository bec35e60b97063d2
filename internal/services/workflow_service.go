package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"windpermit/internal/models"
)

type TeamVerifier interface {
	CheckCode(email, code string) error
	IsVerified(email string) (bool, error)
}

type Sequencer interface {
	Allocate(ctx context.Context) (int, error)
}

type PermitCreator interface {
	CreatePending(number string, seq int, draft models.PermitDraft, now time.Time) (*models.Permit, error)
}

type AuditLog interface {
	Append(e *models.AuditEntry) (int64, error)
}

// WorkflowService — сквозной сценарий создания наряда: валидация
// черновика, гейт верификации команды, выделение номера, создание
// Pending-наряда.
type WorkflowService struct {
	Verif     TeamVerifier
	Allocator Sequencer
	Permits   PermitCreator
	Audit     AuditLog // может быть nil

	Now func() time.Time
}

func NewWorkflowService(verif TeamVerifier, allocator Sequencer, permits PermitCreator, audit AuditLog) *WorkflowService {
	return &WorkflowService{
		Verif:     verif,
		Allocator: allocator,
		Permits:   permits,
		Audit:     audit,
		Now:       time.Now,
	}
}

// Submit — всё или ничего: пока не подтверждён каждый инженер, наряд
// не создаётся и номер не выделяется.
func (s *WorkflowService) Submit(ctx context.Context, draft models.PermitDraft) (*models.Permit, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	for _, eng := range draft.Engineers {
		ok, err := s.Verif.IsVerified(eng.Email)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTeamUnverified, eng.Email)
		}
	}

	seq, err := s.Allocator.Allocate(ctx)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	number := FormatPermitNumber(now.Year(), draft.Form.Site, draft.Form.Model, seq)

	// в снимок уходит фактическое состояние верификации
	for i := range draft.Engineers {
		draft.Engineers[i].Verified = true
	}

	permit, err := s.Permits.CreatePending(number, seq, draft, now)
	if err != nil {
		return nil, err
	}

	if s.Audit != nil {
		payload, _ := json.Marshal(draft)
		entry := &models.AuditEntry{
			Kind:      models.AuditDraftSubmitted,
			Name:      draft.Form.Name,
			Payload:   payload,
			CreatedAt: now,
		}
		if _, err := s.Audit.Append(entry); err != nil {
			log.Printf("[workflow][audit] warning: submit entry failed: %v", err)
		}
	}

	log.Printf("[workflow][submit] permit=%s seq=%d engineers=%d", number, seq, len(draft.Engineers))
	return permit, nil
}

// VerifyEngineer — то же CheckCode, но с записью в журнал permitlist.
func (s *WorkflowService) VerifyEngineer(name, email, code string) error {
	if err := s.Verif.CheckCode(email, code); err != nil {
		return err
	}
	if s.Audit != nil {
		entry := &models.AuditEntry{
			Kind:      models.AuditEngineerVerified,
			Name:      name,
			Email:     email,
			Verified:  true,
			CreatedAt: s.Now(),
		}
		if _, err := s.Audit.Append(entry); err != nil {
			log.Printf("[workflow][audit] warning: engineer entry failed: %v", err)
		}
	}
	return nil
}

// RecordDraft — сводная отправка формы с предпоследнего экрана.
func (s *WorkflowService) RecordDraft(draft models.PermitDraft) error {
	if s.Audit == nil {
		return nil
	}
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("draft marshal: %w", err)
	}
	entry := &models.AuditEntry{
		Kind:      models.AuditDraftSubmitted,
		Name:      draft.Form.Name,
		Payload:   payload,
		CreatedAt: s.Now(),
	}
	if _, err := s.Audit.Append(entry); err != nil {
		return err
	}
	return nil
}

func validateDraft(draft models.PermitDraft) error {
	fields := map[string]string{
		"name":              draft.Form.Name,
		"numberOfPersons":   draft.Form.NumberOfPersons,
		"descriptionOfWork": draft.Form.DescriptionOfWork,
		"site":              draft.Form.Site,
		"model":             draft.Form.Model,
		"location":          draft.Form.Location,
		"workArea":          draft.Form.WorkArea,
		"windSpeed":         draft.Form.WindSpeed,
		"swmsProvided":      draft.Form.SWMSProvided,
	}
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: field %q is required", ErrValidation, name)
		}
	}

	checked := false
	for _, v := range draft.PPEChecklist {
		if v {
			checked = true
			break
		}
	}
	if !checked {
		for _, v := range draft.IsolationChecklist {
			if v {
				checked = true
				break
			}
		}
	}
	if !checked {
		return fmt.Errorf("%w: at least one checklist item must be checked", ErrValidation)
	}

	if len(draft.Engineers) == 0 {
		return fmt.Errorf("%w: at least one engineer is required", ErrValidation)
	}
	for _, eng := range draft.Engineers {
		if strings.TrimSpace(eng.Name) == "" || strings.TrimSpace(eng.Email) == "" {
			return fmt.Errorf("%w: engineer name and email are required", ErrValidation)
		}
	}
	return nil
}

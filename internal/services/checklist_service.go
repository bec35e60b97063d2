package services

import (
	"fmt"
	"strings"
	"time"

	"windpermit/internal/models"
	"windpermit/internal/repositories"
)

// 28 фиксированных секций регламентного чек-листа (бывший checklists.json).
var checklistSections = []string{
	"Foundation",
	"Tower",
	"Ladder & Fall Arrest",
	"Service Lift",
	"Nacelle",
	"Hub",
	"Blades",
	"Pitch System",
	"Yaw System",
	"Gearbox",
	"Main Bearing",
	"Main Shaft",
	"Generator",
	"Slip Ring",
	"Converter",
	"Transformer",
	"Switchgear",
	"Control Cabinet",
	"Hydraulic System",
	"Brake System",
	"Lubrication System",
	"Cooling System",
	"Sensors & Anemometry",
	"Lightning Protection",
	"Fire Suppression",
	"Emergency Stop",
	"Cable Loop",
	"Oscillation Damper",
}

type ChecklistService struct {
	Repo *repositories.ChecklistRepository
}

func NewChecklistService(repo *repositories.ChecklistRepository) *ChecklistService {
	return &ChecklistService{Repo: repo}
}

func (s *ChecklistService) Sections() []string {
	out := make([]string, len(checklistSections))
	copy(out, checklistSections)
	return out
}

func (s *ChecklistService) knownSection(section string) bool {
	for _, name := range checklistSections {
		if name == section {
			return true
		}
	}
	return false
}

// Upload — валидация как на экране секции: статус у каждого пункта,
// примечание при статусе Other, заполненные remarks/updatedRemarks.
func (s *ChecklistService) Upload(section string, items []models.ChecklistItem) (*models.ChecklistUpload, error) {
	if !s.knownSection(section) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: section has no items", ErrValidation)
	}
	for _, item := range items {
		if err := validateChecklistItem(item); err != nil {
			return nil, err
		}
	}

	upload := &models.ChecklistUpload{
		Section:    section,
		Items:      items,
		Complete:   true,
		UploadedAt: time.Now(),
	}
	id, err := s.Repo.SaveUpload(upload)
	if err != nil {
		return nil, err
	}
	upload.ID = id
	return upload, nil
}

func (s *ChecklistService) Latest(section string) (*models.ChecklistUpload, error) {
	if !s.knownSection(section) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	return s.Repo.GetLatestBySection(section)
}

func validateChecklistItem(item models.ChecklistItem) error {
	switch item.Status {
	case models.ItemStatusOK, models.ItemStatusNotOK:
	case models.ItemStatusOther:
		if strings.TrimSpace(item.OtherStatus) == "" {
			return fmt.Errorf("%w: item %d: status note is required for %q", ErrValidation, item.ID, models.ItemStatusOther)
		}
	default:
		return fmt.Errorf("%w: item %d: unknown status %q", ErrValidation, item.ID, item.Status)
	}
	if strings.TrimSpace(item.Remarks) == "" || strings.TrimSpace(item.UpdatedRemarks) == "" {
		return fmt.Errorf("%w: item %d: remarks are required", ErrValidation, item.ID)
	}
	return nil
}

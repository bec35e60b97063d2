package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windpermit/internal/models"
)

func TestChecklistSections(t *testing.T) {
	svc := NewChecklistService(nil)

	sections := svc.Sections()
	require.Len(t, sections, 28)
	assert.Equal(t, "Foundation", sections[0])
	assert.Contains(t, sections, "Gearbox")
	assert.Contains(t, sections, "Oscillation Damper")

	// копия, а не внутренний срез
	sections[0] = "mutated"
	assert.Equal(t, "Foundation", svc.Sections()[0])
}

func TestChecklistUpload_Validation(t *testing.T) {
	svc := NewChecklistService(nil)

	okItem := models.ChecklistItem{
		ID:             1,
		Title:          "Oil level",
		Status:         models.ItemStatusOK,
		Remarks:        "checked",
		UpdatedRemarks: "checked again",
	}

	t.Run("unknown section", func(t *testing.T) {
		_, err := svc.Upload("Warp Drive", []models.ChecklistItem{okItem})
		assert.ErrorIs(t, err, ErrUnknownSection)
	})

	t.Run("empty items", func(t *testing.T) {
		_, err := svc.Upload("Gearbox", nil)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown status", func(t *testing.T) {
		item := okItem
		item.Status = "Maybe"
		_, err := svc.Upload("Gearbox", []models.ChecklistItem{item})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("other without note", func(t *testing.T) {
		item := okItem
		item.Status = models.ItemStatusOther
		item.OtherStatus = " "
		_, err := svc.Upload("Gearbox", []models.ChecklistItem{item})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("missing remarks", func(t *testing.T) {
		item := okItem
		item.Remarks = ""
		_, err := svc.Upload("Gearbox", []models.ChecklistItem{item})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("latest of unknown section", func(t *testing.T) {
		_, err := svc.Latest("Warp Drive")
		assert.ErrorIs(t, err, ErrUnknownSection)
	})
}

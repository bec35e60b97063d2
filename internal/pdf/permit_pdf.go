package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"windpermit/internal/models"
)

// Generator — интерфейс (удобно мокать в тестах)
type Generator interface {
	GeneratePermit(snap *models.PermitSnapshot) (string, error)
}

// PermitGenerator — печатная форма наряда-допуска из снимка.
type PermitGenerator struct {
	RootDir string // корень хранения, например "./files"
}

func NewPermitGenerator(rootDir string) *PermitGenerator {
	return &PermitGenerator{RootDir: filepath.Clean(rootDir)}
}

func (g *PermitGenerator) GeneratePermit(snap *models.PermitSnapshot) (string, error) {
	filename := fmt.Sprintf("permit_%s.pdf", sanitizeFilename(snap.Number))
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Permit to Work "+snap.Number, false)
	pdf.SetAuthor("WindPermit", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// ===== Заголовок
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, "PERMIT TO WORK", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	sub := fmt.Sprintf("No. %s  issued  %s", snap.Number, snap.CreatedAt.Format("02.01.2006"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	// ===== Работа
	g.sectionTitle(pdf, "Work details")
	g.kvLine(pdf, "Requested by", snap.Draft.Form.Name)
	g.kvLine(pdf, "Persons on site", snap.Draft.Form.NumberOfPersons)
	g.kvLine(pdf, "Site", snap.Draft.Form.Site)
	g.kvLine(pdf, "Turbine model", snap.Draft.Form.Model)
	g.kvLine(pdf, "Location", snap.Draft.Form.Location)
	g.kvLine(pdf, "Work area", snap.Draft.Form.WorkArea)
	g.kvLine(pdf, "Wind speed", snap.Draft.Form.WindSpeed)
	g.kvLine(pdf, "SWMS provided", snap.Draft.Form.SWMSProvided)
	pdf.Ln(1)

	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 6, "Description of work: "+snap.Draft.Form.DescriptionOfWork, "", "L", false)
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Чек-листы
	g.sectionTitle(pdf, "PPE checklist")
	g.checklistBlock(pdf, snap.Draft.PPEChecklist)
	g.hr(pdf)

	g.sectionTitle(pdf, "Isolation and control checklist")
	g.checklistBlock(pdf, snap.Draft.IsolationChecklist)
	g.hr(pdf)

	// ===== Команда
	g.sectionTitle(pdf, "Verified site engineers")
	pdf.SetFont("Arial", "", 11)
	for _, eng := range snap.Draft.Engineers {
		mark := "[ ]"
		if eng.Verified {
			mark = "[x]"
		}
		pdf.CellFormat(0, 6, fmt.Sprintf("%s %s <%s>", mark, eng.Name, eng.Email), "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", fmt.Errorf("pdf output: %w", err)
	}
	return absPath, nil
}

func (g *PermitGenerator) checklistBlock(pdf *gofpdf.Fpdf, items map[string]bool) {
	pdf.SetFont("Arial", "", 11)
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		mark := "[ ]"
		if items[k] {
			mark = "[x]"
		}
		pdf.CellFormat(0, 6, fmt.Sprintf("%s %s", mark, k), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
}

func (g *PermitGenerator) sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func (g *PermitGenerator) kvLine(pdf *gofpdf.Fpdf, key, value string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(50, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func (g *PermitGenerator) hr(pdf *gofpdf.Fpdf) {
	x, y := pdf.GetX(), pdf.GetY()
	pageWidth, _ := pdf.GetPageSize()
	pdf.Line(x, y, pageWidth-20, y)
	pdf.Ln(2)
}

func (g *PermitGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", g.RootDir, err)
	}
	return filepath.Join(g.RootDir, filename), nil
}

// номер наряда содержит свободный текст site/model — чистим для имени файла
func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

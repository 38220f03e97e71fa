// internal/app/features/reports/pdf.go
package reports

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/gatehouse/internal/domain/models"
)

// pdfRowCap bounds the table so the document stays printable; the CSV export
// carries the full result set.
const pdfRowCap = 200

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Name", 32},
	{"Contact", 26},
	{"Purpose", 38},
	{"Department", 28},
	{"To Meet", 28},
	{"Guard", 26},
	{"Time In", 30},
	{"Time Out", 30},
}

// writePDF streams the rows as a PDF attachment: title, filter summary, then
// a fixed-width table capped at pdfRowCap rows.
func (h *Handler) writePDF(w http.ResponseWriter, win reportWindow, visitors []models.Visitor, deptNames map[primitive.ObjectID]string) error {
	filename := fmt.Sprintf("visitor_report_%s.pdf", uuid.NewString())
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Visitor Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6,
		fmt.Sprintf("Period: %s to %s    Department: %s", win.StartLabel, win.EndLabel, win.DeptLabel),
		"", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6,
		fmt.Sprintf("Total entries: %d    Generated: %s", len(visitors), time.Now().Format("2006-01-02 15:04")),
		"", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	rows := visitors
	truncated := false
	if len(rows) > pdfRowCap {
		rows = rows[:pdfRowCap]
		truncated = true
	}

	for _, v := range rows {
		cells := []string{
			v.Name,
			v.Contact,
			v.Purpose,
			departmentName(v.DepartmentID, deptNames),
			v.PersonToMeet,
			v.GuardName,
			v.TimeIn.Format("2006-01-02 15:04"),
			pdfTimeOut(v.TimeOut),
		}
		for i, col := range pdfColumns {
			pdf.CellFormat(col.width, 6, clip(cells[i], col.width), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if truncated {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 6,
			fmt.Sprintf("Showing the first %d of %d entries. Use the CSV export for the full list.", pdfRowCap, len(visitors)),
			"", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}

func pdfTimeOut(t *time.Time) string {
	if t == nil {
		return "Inside"
	}
	return t.Format("2006-01-02 15:04")
}

// clip trims a cell value to roughly what fits its column at the table's font
// size. Rough is fine: gofpdf overflows silently otherwise. Trimming is done
// on runes so multi-byte names are never cut mid-character.
func clip(s string, width float64) string {
	max := int(width / 1.8)
	r := []rune(s)
	if max < 4 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// internal/app/features/reports/csv.go
package reports

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/gatehouse/internal/domain/models"
)

var csvHeader = []string{
	"name", "contact", "email", "member_id", "purpose", "department",
	"person_to_meet", "guard", "time_in", "time_out",
}

// writeCSV streams the rows as a CSV attachment with a UTF-8 BOM so Excel
// opens it correctly.
func (h *Handler) writeCSV(w http.ResponseWriter, visitors []models.Visitor, deptNames map[primitive.ObjectID]string) error {
	filename := fmt.Sprintf("visitor_report_%s.csv", uuid.NewString())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))

	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	defer cw.Flush()

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, v := range visitors {
		if err := cw.Write(csvRow(v, deptNames)); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		h.Log.Error("reports: csv flush failed", zap.Error(err))
		return err
	}
	return nil
}

func csvRow(v models.Visitor, deptNames map[primitive.ObjectID]string) []string {
	return []string{
		sanitizeCSVField(v.Name),
		sanitizeCSVField(v.Contact),
		sanitizeCSVField(v.Email),
		sanitizeCSVField(v.MemberID),
		sanitizeCSVField(v.Purpose),
		sanitizeCSVField(departmentName(v.DepartmentID, deptNames)),
		sanitizeCSVField(v.PersonToMeet),
		sanitizeCSVField(v.GuardName),
		v.TimeIn.Format(time.RFC3339),
		formatTimeOut(v.TimeOut),
	}
}

func departmentName(id *primitive.ObjectID, names map[primitive.ObjectID]string) string {
	if id == nil {
		return ""
	}
	return names[*id]
}

func formatTimeOut(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// sanitizeCSVField neutralizes spreadsheet formula injection.
func sanitizeCSVField(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@':
		return "'" + s
	}
	return s
}

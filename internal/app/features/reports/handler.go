// internal/app/features/reports/handler.go
package reports

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	departmentstore "github.com/dalemusser/gatehouse/internal/app/store/departments"
	visitorstore "github.com/dalemusser/gatehouse/internal/app/store/visitors"
	"github.com/dalemusser/gatehouse/internal/app/system/respond"
	"github.com/dalemusser/gatehouse/internal/app/system/timeouts"
	"github.com/dalemusser/gatehouse/internal/domain/models"
)

// Handler serves the /api/reports endpoints, principal-only downloads of the
// visitor ledger.
type Handler struct {
	Log         *zap.Logger
	Visitors    *visitorstore.Store
	Departments *departmentstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Log:         logger,
		Visitors:    visitorstore.New(db),
		Departments: departmentstore.New(db),
	}
}

type reportRequest struct {
	StartDate    string `json:"startDate"` // YYYY-MM-DD
	EndDate      string `json:"endDate"`   // YYYY-MM-DD
	DepartmentID string `json:"departmentId"`
}

// reportWindow is the parsed filter plus the labels printed on the document.
type reportWindow struct {
	Filter     visitorstore.Filter
	StartLabel string
	EndLabel   string
	DeptLabel  string
}

func (h *Handler) parseRequest(r *http.Request) (reportWindow, string) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return reportWindow{}, "Invalid request body"
	}

	win := reportWindow{StartLabel: "beginning", EndLabel: "now", DeptLabel: "All departments"}

	if req.StartDate != "" {
		t, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return reportWindow{}, "Invalid startDate, expected YYYY-MM-DD"
		}
		win.Filter.Start = &t
		win.StartLabel = req.StartDate
	}
	if req.EndDate != "" {
		t, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return reportWindow{}, "Invalid endDate, expected YYYY-MM-DD"
		}
		end := t.Add(24*time.Hour - time.Second)
		win.Filter.End = &end
		win.EndLabel = req.EndDate
	}
	if req.DepartmentID != "" {
		oid, err := primitive.ObjectIDFromHex(req.DepartmentID)
		if err != nil {
			return reportWindow{}, "Invalid department id"
		}
		win.Filter.DepartmentID = &oid
	}
	return win, ""
}

// fetch loads the matching ledger rows and a department-name lookup. The
// department label on the window is filled in when one was selected.
func (h *Handler) fetch(ctx context.Context, win *reportWindow) ([]models.Visitor, map[primitive.ObjectID]string, error) {
	visitors, err := h.Visitors.Export(ctx, win.Filter)
	if err != nil {
		return nil, nil, err
	}

	depts, err := h.Departments.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	names := make(map[primitive.ObjectID]string, len(depts))
	for _, d := range depts {
		names[d.ID] = d.Name
	}
	if win.Filter.DepartmentID != nil {
		if n, ok := names[*win.Filter.DepartmentID]; ok {
			win.DeptLabel = n
		}
	}
	return visitors, names, nil
}

// HandlePDF streams the filtered ledger as a PDF attachment. An empty result
// is a 200 with success=false, matching the client's expectations.
func (h *Handler) HandlePDF(w http.ResponseWriter, r *http.Request) {
	win, msg := h.parseRequest(r)
	if msg != "" {
		respond.BadRequest(w, msg)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "pdf report export")
	defer cancel()

	visitors, names, err := h.fetch(ctx, &win)
	if err != nil {
		respond.ServerError(w, h.Log, "reports: pdf fetch failed", err, "Could not generate the report.")
		return
	}
	if len(visitors) == 0 {
		respond.SoftFail(w, "No visitor records found for the selected criteria")
		return
	}

	if err := h.writePDF(w, win, visitors, names); err != nil {
		h.Log.Error("reports: pdf write failed", zap.Error(err))
		return
	}
	h.Log.Info("visitor report exported",
		zap.String("format", "pdf"), zap.Int("rows", len(visitors)))
}

// HandleCSV streams the filtered ledger as a CSV attachment.
func (h *Handler) HandleCSV(w http.ResponseWriter, r *http.Request) {
	win, msg := h.parseRequest(r)
	if msg != "" {
		respond.BadRequest(w, msg)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "csv report export")
	defer cancel()

	visitors, names, err := h.fetch(ctx, &win)
	if err != nil {
		respond.ServerError(w, h.Log, "reports: csv fetch failed", err, "Could not generate the report.")
		return
	}
	if len(visitors) == 0 {
		respond.SoftFail(w, "No visitor records found for the selected criteria")
		return
	}

	if err := h.writeCSV(w, visitors, names); err != nil {
		h.Log.Error("reports: csv write failed", zap.Error(err))
		return
	}
	h.Log.Info("visitor report exported",
		zap.String("format", "csv"), zap.Int("rows", len(visitors)))
}

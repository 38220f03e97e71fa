// internal/app/features/departments/handler.go
package departments

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	departmentstore "github.com/dalemusser/gatehouse/internal/app/store/departments"
	sysauth "github.com/dalemusser/gatehouse/internal/app/system/auth"
	"github.com/dalemusser/gatehouse/internal/app/system/respond"
	"github.com/dalemusser/gatehouse/internal/app/system/sanitize"
	"github.com/dalemusser/gatehouse/internal/app/system/timeouts"
)

// Handler serves the /api/departments endpoints.
type Handler struct {
	Log         *zap.Logger
	Departments *departmentstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Departments: departmentstore.New(db)}
}

type departmentRequest struct {
	Name string `json:"name"`
}

// HandleCreate adds a department. Names are unique, case-insensitively.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	su, ok := sysauth.CurrentUser(r)
	if !ok {
		respond.Unauthorized(w, "Not authorized, no token")
		return
	}
	createdBy, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		respond.Unauthorized(w, "Not authorized, no token")
		return
	}

	var req departmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "Invalid request body")
		return
	}
	req.Name = sanitize.Text(req.Name)
	if req.Name == "" {
		respond.BadRequest(w, "Please provide a department name")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	d, err := h.Departments.Create(ctx, req.Name, createdBy)
	switch {
	case err == departmentstore.ErrDuplicateName:
		respond.Conflict(w, "Department already exists")
		return
	case err != nil:
		respond.ServerError(w, h.Log, "departments: create failed", err, "Could not create the department.")
		return
	}

	respond.Created(w, respond.Payload{"message": "Department created successfully", "department": d})
}

// HandleList returns every department, alphabetically.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Departments.List(ctx)
	if err != nil {
		respond.ServerError(w, h.Log, "departments: list failed", err, "Could not list departments.")
		return
	}
	respond.OK(w, respond.Payload{"departments": list, "count": len(list)})
}

// HandleRename changes a department's name.
func (h *Handler) HandleRename(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid department id")
		return
	}

	var req departmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "Invalid request body")
		return
	}
	req.Name = sanitize.Text(req.Name)
	if req.Name == "" {
		respond.BadRequest(w, "Please provide a department name")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	d, err := h.Departments.Rename(ctx, oid, req.Name)
	switch {
	case err == departmentstore.ErrNotFound:
		respond.NotFound(w, "Department not found")
		return
	case err == departmentstore.ErrDuplicateName:
		respond.Conflict(w, "Department already exists")
		return
	case err != nil:
		respond.ServerError(w, h.Log, "departments: rename failed", err, "Could not rename the department.")
		return
	}

	respond.OK(w, respond.Payload{"message": "Department updated successfully", "department": d})
}

// HandleDelete removes a department. Visitor entries keep their copied
// department id.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid department id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err = h.Departments.Delete(ctx, oid)
	switch {
	case err == departmentstore.ErrNotFound:
		respond.NotFound(w, "Department not found")
		return
	case err != nil:
		respond.ServerError(w, h.Log, "departments: delete failed", err, "Could not delete the department.")
		return
	}

	respond.OK(w, respond.Payload{"message": "Department deleted successfully"})
}

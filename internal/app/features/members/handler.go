// internal/app/features/members/handler.go
package members

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	memberstore "github.com/dalemusser/gatehouse/internal/app/store/members"
	visitorstore "github.com/dalemusser/gatehouse/internal/app/store/visitors"
	"github.com/dalemusser/gatehouse/internal/app/system/respond"
	"github.com/dalemusser/gatehouse/internal/app/system/sanitize"
	"github.com/dalemusser/gatehouse/internal/app/system/timeouts"
)

// historyLimit caps the ledger rows returned per member.
const historyLimit = 50

// Handler serves the /api/members endpoints.
type Handler struct {
	Log      *zap.Logger
	Members  *memberstore.Store
	Visitors *visitorstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		Members:  memberstore.New(db),
		Visitors: visitorstore.New(db),
	}
}

// HandleList returns the frequent-visitor roster, optionally filtered by a
// search term and sorted by visitCount, recent or name.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	search := sanitize.Text(query.Get(r, "search"))
	sortBy := query.Get(r, "sortBy")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Members.List(ctx, search, sortBy)
	if err != nil {
		respond.ServerError(w, h.Log, "members: list failed", err, "Could not list members.")
		return
	}
	respond.OK(w, respond.Payload{"members": list, "count": len(list)})
}

// HandleGet returns one roster entry.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid member id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Members.FindByID(ctx, oid)
	switch {
	case err == memberstore.ErrNotFound:
		respond.NotFound(w, "Member not found")
		return
	case err != nil:
		respond.ServerError(w, h.Log, "members: fetch failed", err, "Could not load the member.")
		return
	}
	respond.OK(w, respond.Payload{"member": m})
}

// HandleHistory returns the member's visitor entries, newest first.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid member id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Members.FindByID(ctx, oid)
	switch {
	case err == memberstore.ErrNotFound:
		respond.NotFound(w, "Member not found")
		return
	case err != nil:
		respond.ServerError(w, h.Log, "members: fetch failed", err, "Could not load the member.")
		return
	}

	visits, err := h.Visitors.ListByContact(ctx, m.Phone, historyLimit)
	if err != nil {
		respond.ServerError(w, h.Log, "members: history failed", err, "Could not load the visit history.")
		return
	}

	respond.OK(w, respond.Payload{
		"member": m,
		"visits": visits,
		"count":  len(visits),
	})
}

type updateRequest struct {
	Name     string `json:"name"`
	MemberID string `json:"memberId"`
}

// HandleUpdate edits a roster entry's name or external member id.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid member id")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "Invalid request body")
		return
	}
	req.Name = sanitize.Text(req.Name)
	req.MemberID = sanitize.Text(req.MemberID)
	if req.Name == "" && req.MemberID == "" {
		respond.BadRequest(w, "Nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Members.Update(ctx, oid, req.Name, req.MemberID)
	switch {
	case err == memberstore.ErrNotFound:
		respond.NotFound(w, "Member not found")
		return
	case err != nil:
		respond.ServerError(w, h.Log, "members: update failed", err, "Could not update the member.")
		return
	}

	respond.OK(w, respond.Payload{"message": "Member updated successfully", "member": m})
}

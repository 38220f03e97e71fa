// internal/app/features/visitors/handler.go
package visitors

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	memberstore "github.com/dalemusser/gatehouse/internal/app/store/members"
	notificationstore "github.com/dalemusser/gatehouse/internal/app/store/notifications"
	userstore "github.com/dalemusser/gatehouse/internal/app/store/users"
	visitorstore "github.com/dalemusser/gatehouse/internal/app/store/visitors"
	sysauth "github.com/dalemusser/gatehouse/internal/app/system/auth"
	"github.com/dalemusser/gatehouse/internal/app/system/normalize"
	"github.com/dalemusser/gatehouse/internal/app/system/respond"
	"github.com/dalemusser/gatehouse/internal/app/system/sanitize"
	"github.com/dalemusser/gatehouse/internal/app/system/timeouts"
	"github.com/dalemusser/gatehouse/internal/domain/models"
)

// Handler serves the /api/visitors endpoints.
type Handler struct {
	Log           *zap.Logger
	Visitors      *visitorstore.Store
	Members       *memberstore.Store
	Notifications *notificationstore.Store
	Users         *userstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Log:           logger,
		Visitors:      visitorstore.New(db),
		Members:       memberstore.New(db),
		Notifications: notificationstore.New(db),
		Users:         userstore.New(db),
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/visitors                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

type logRequest struct {
	Name         string `json:"name"`
	Contact      string `json:"contact"`
	Email        string `json:"email"`
	MemberID     string `json:"memberId"`
	Purpose      string `json:"purpose"`
	DepartmentID string `json:"departmentId"`
	PersonToMeet string `json:"personToMeet"`
}

// HandleLog records a visitor entry, updates the repeat-visitor tally, and
// fans a notification out to every approved principal. The tally and the
// fan-out are best effort: a failure in either never undoes the entry.
func (h *Handler) HandleLog(w http.ResponseWriter, r *http.Request) {
	su, ok := sysauth.CurrentUser(r)
	if !ok {
		respond.Unauthorized(w, "Not authorized, no token")
		return
	}
	guardID, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		respond.Unauthorized(w, "Not authorized, no token")
		return
	}

	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "Invalid request body")
		return
	}

	req.Name = sanitize.Text(req.Name)
	req.Contact = normalize.Phone(sanitize.Text(req.Contact))
	req.Email = sanitize.Text(req.Email)
	req.MemberID = sanitize.Text(req.MemberID)
	req.Purpose = sanitize.Text(req.Purpose)
	req.PersonToMeet = sanitize.Text(req.PersonToMeet)

	if req.Name == "" || req.Contact == "" || req.Purpose == "" {
		respond.BadRequest(w, "Please provide name, contact and purpose")
		return
	}

	var deptID *primitive.ObjectID
	if req.DepartmentID != "" {
		oid, err := primitive.ObjectIDFromHex(req.DepartmentID)
		if err != nil {
			respond.BadRequest(w, "Invalid department id")
			return
		}
		deptID = &oid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := h.Visitors.Log(ctx, visitorstore.LogParams{
		Name:         req.Name,
		Contact:      req.Contact,
		Email:        req.Email,
		MemberID:     req.MemberID,
		Purpose:      req.Purpose,
		DepartmentID: deptID,
		PersonToMeet: req.PersonToMeet,
		GuardID:      guardID,
		GuardName:    su.FullName,
	})
	if err != nil {
		respond.ServerError(w, h.Log, "visitors: log failed", err, "Could not log the visitor.")
		return
	}

	member := h.trackMember(ctx, v, req.MemberID)
	h.notifyPrincipals(ctx, v, su.FullName)

	payload := respond.Payload{
		"message": "Visitor logged successfully",
		"visitor": v,
	}
	if member != nil {
		payload["member"] = member
	}
	respond.Created(w, payload)
}

// trackMember counts this contact's entries and records the visit against the
// frequent-visitor roster. Returns the member record when the contact has one.
func (h *Handler) trackMember(ctx context.Context, v models.Visitor, memberID string) *models.Member {
	count, err := h.Visitors.CountByContact(ctx, v.Contact)
	if err != nil {
		h.Log.Warn("visitors: contact count failed",
			zap.String("contact", v.Contact), zap.Error(err))
		return nil
	}

	m, err := h.Members.RecordVisit(ctx, memberstore.VisitParams{
		Phone:       v.Contact,
		Name:        v.Name,
		MemberID:    memberID,
		LedgerCount: count,
	})
	if err != nil {
		h.Log.Warn("visitors: member tally failed",
			zap.String("contact", v.Contact), zap.Error(err))
		return nil
	}
	return m
}

// notifyPrincipals fans a visitor-logged notification out to every approved
// principal. Failures are logged and swallowed.
func (h *Handler) notifyPrincipals(ctx context.Context, v models.Visitor, guardName string) {
	principals, err := h.Users.ApprovedPrincipals(ctx)
	if err != nil {
		h.Log.Warn("visitors: principal lookup failed", zap.Error(err))
		return
	}
	if err := h.Notifications.FanOut(ctx, v, guardName, principals); err != nil {
		h.Log.Warn("visitors: notification fanout failed",
			zap.String("visitor_id", v.ID.Hex()), zap.Error(err))
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| PUT /api/visitors/{id}/checkout                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleCheckout stamps the visitor's departure. A second checkout of the
// same entry gets a conflict, not a new timestamp.
func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid visitor id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := h.Visitors.Checkout(ctx, oid)
	switch {
	case err == visitorstore.ErrNotFound:
		respond.NotFound(w, "Visitor not found")
		return
	case err == visitorstore.ErrAlreadyCheckedOut:
		respond.Conflict(w, "Visitor already checked out")
		return
	case err != nil:
		respond.ServerError(w, h.Log, "visitors: checkout failed", err, "Could not check the visitor out.")
		return
	}

	respond.OK(w, respond.Payload{"message": "Visitor checked out successfully", "visitor": v})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/visitors                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleList returns visitor entries, newest first. Guards see only their own
// entries; principals see everything and may narrow by guard.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	su, ok := sysauth.CurrentUser(r)
	if !ok {
		respond.Unauthorized(w, "Not authorized, no token")
		return
	}

	f := visitorstore.Filter{Search: sanitize.Text(query.Get(r, "search"))}

	if su.Role == models.RoleGuard {
		oid, err := primitive.ObjectIDFromHex(su.ID)
		if err != nil {
			respond.Unauthorized(w, "Not authorized, no token")
			return
		}
		f.GuardID = &oid
	} else if g := query.Get(r, "guardId"); g != "" {
		oid, err := primitive.ObjectIDFromHex(g)
		if err != nil {
			respond.BadRequest(w, "Invalid guard id")
			return
		}
		f.GuardID = &oid
	}

	if d := query.Get(r, "departmentId"); d != "" {
		oid, err := primitive.ObjectIDFromHex(d)
		if err != nil {
			respond.BadRequest(w, "Invalid department id")
			return
		}
		f.DepartmentID = &oid
	}

	if s := query.Get(r, "startDate"); s != "" {
		t, err := parseDay(s)
		if err != nil {
			respond.BadRequest(w, "Invalid startDate, expected YYYY-MM-DD")
			return
		}
		f.Start = &t
	}
	if e := query.Get(r, "endDate"); e != "" {
		t, err := parseDay(e)
		if err != nil {
			respond.BadRequest(w, "Invalid endDate, expected YYYY-MM-DD")
			return
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.End = &end
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Visitors.List(ctx, f)
	if err != nil {
		respond.ServerError(w, h.Log, "visitors: list failed", err, "Could not list visitors.")
		return
	}
	respond.OK(w, respond.Payload{"visitors": list, "count": len(list)})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/visitors/{id}                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleGet returns one visitor entry.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid visitor id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	v, err := h.Visitors.FindByID(ctx, oid)
	switch {
	case err == visitorstore.ErrNotFound:
		respond.NotFound(w, "Visitor not found")
		return
	case err != nil:
		respond.ServerError(w, h.Log, "visitors: fetch failed", err, "Could not load the visitor.")
		return
	}

	respond.OK(w, respond.Payload{"visitor": v})
}

// parseDay parses a YYYY-MM-DD value as midnight UTC.
func parseDay(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

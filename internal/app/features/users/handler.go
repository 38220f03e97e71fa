// internal/app/features/users/handler.go
package users

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	userstore "github.com/dalemusser/gatehouse/internal/app/store/users"
	sysauth "github.com/dalemusser/gatehouse/internal/app/system/auth"
	"github.com/dalemusser/gatehouse/internal/app/system/respond"
	"github.com/dalemusser/gatehouse/internal/app/system/timeouts"
)

// Handler serves the /api/users endpoints. All of them are principal-only.
type Handler struct {
	Log   *zap.Logger
	Users *userstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Users: userstore.New(db)}
}

// HandleList returns every account, newest first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Users.ListAll(ctx)
	if err != nil {
		respond.ServerError(w, h.Log, "users: list failed", err, "Could not list users.")
		return
	}
	respond.OK(w, respond.Payload{"users": list, "count": len(list)})
}

// HandleListPending returns accounts still waiting for approval.
func (h *Handler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Users.ListPending(ctx)
	if err != nil {
		respond.ServerError(w, h.Log, "users: list pending failed", err, "Could not list pending users.")
		return
	}
	respond.OK(w, respond.Payload{"users": list, "count": len(list)})
}

// HandleApprove flips the approval flag on one account.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Approve(ctx, oid)
	switch {
	case err == userstore.ErrNotFound:
		respond.NotFound(w, "User not found")
		return
	case err != nil:
		respond.ServerError(w, h.Log, "users: approve failed", err, "Could not approve the user.")
		return
	}

	h.Log.Info("user approved",
		zap.String("user_id", u.ID.Hex()),
		zap.String("username", u.Username))

	respond.OK(w, respond.Payload{"message": "User approved successfully", "user": u})
}

// HandleDelete removes an account. Principals cannot delete themselves.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	su, ok := sysauth.CurrentUser(r)
	if !ok {
		respond.Unauthorized(w, "Not authorized, no token")
		return
	}
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid user id")
		return
	}
	actorID, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		respond.Unauthorized(w, "Not authorized, no token")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err = h.Users.Delete(ctx, oid, actorID)
	switch {
	case err == userstore.ErrSelfDeletion:
		respond.BadRequest(w, "You cannot delete your own account")
		return
	case err == userstore.ErrNotFound:
		respond.NotFound(w, "User not found")
		return
	case err != nil:
		respond.ServerError(w, h.Log, "users: delete failed", err, "Could not delete the user.")
		return
	}

	respond.OK(w, respond.Payload{"message": "User deleted successfully"})
}

// internal/app/features/notifications/handler.go
package notifications

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	notificationstore "github.com/dalemusser/gatehouse/internal/app/store/notifications"
	sysauth "github.com/dalemusser/gatehouse/internal/app/system/auth"
	"github.com/dalemusser/gatehouse/internal/app/system/respond"
	"github.com/dalemusser/gatehouse/internal/app/system/timeouts"
)

// Handler serves the /api/notifications endpoints. Every operation is scoped
// to the session user's own inbox.
type Handler struct {
	Log           *zap.Logger
	Notifications *notificationstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Notifications: notificationstore.New(db)}
}

func sessionUserID(r *http.Request) (primitive.ObjectID, bool) {
	su, ok := sysauth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(su.ID)
	return oid, err == nil
}

// HandleList returns the newest notifications plus the unread tally.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(r)
	if !ok {
		respond.Unauthorized(w, "Not authorized, no token")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Notifications.ListForUser(ctx, userID)
	if err != nil {
		respond.ServerError(w, h.Log, "notifications: list failed", err, "Could not list notifications.")
		return
	}
	unread, err := h.Notifications.CountUnread(ctx, userID)
	if err != nil {
		respond.ServerError(w, h.Log, "notifications: unread count failed", err, "Could not list notifications.")
		return
	}

	respond.OK(w, respond.Payload{
		"notifications": list,
		"count":         len(list),
		"unreadCount":   unread,
	})
}

// HandleMarkRead marks one of the user's notifications as read.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(r)
	if !ok {
		respond.Unauthorized(w, "Not authorized, no token")
		return
	}
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid notification id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err = h.Notifications.MarkRead(ctx, oid, userID)
	switch {
	case err == notificationstore.ErrNotFound:
		respond.NotFound(w, "Notification not found")
		return
	case err != nil:
		respond.ServerError(w, h.Log, "notifications: mark read failed", err, "Could not update the notification.")
		return
	}

	respond.OK(w, respond.Payload{"message": "Notification marked as read"})
}

// HandleMarkAllRead marks the whole inbox read.
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(r)
	if !ok {
		respond.Unauthorized(w, "Not authorized, no token")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.Notifications.MarkAllRead(ctx, userID)
	if err != nil {
		respond.ServerError(w, h.Log, "notifications: mark all read failed", err, "Could not update notifications.")
		return
	}

	respond.OK(w, respond.Payload{
		"message": "All notifications marked as read",
		"updated": updated,
	})
}

// HandleDelete removes one of the user's notifications.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(r)
	if !ok {
		respond.Unauthorized(w, "Not authorized, no token")
		return
	}
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid notification id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err = h.Notifications.Delete(ctx, oid, userID)
	switch {
	case err == notificationstore.ErrNotFound:
		respond.NotFound(w, "Notification not found")
		return
	case err != nil:
		respond.ServerError(w, h.Log, "notifications: delete failed", err, "Could not delete the notification.")
		return
	}

	respond.OK(w, respond.Payload{"message": "Notification deleted"})
}

// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types. Only visitor_logged is emitted today; the approved and
// rejected values are retained for wire compatibility with older clients.
const (
	NotifyVisitorLogged   = "visitor_logged"
	NotifyVisitorApproved = "visitor_approved"
	NotifyVisitorRejected = "visitor_rejected"
)

// Notification is one inbox row for one principal. Logging a visitor fans
// out one row per approved principal at that moment (write fanout); readers
// query only their own rows. Rows mutate only to flip IsRead.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	VisitorID primitive.ObjectID `bson:"visitor_id" json:"visitorId"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Type      string             `bson:"type" json:"type"`
	IsRead    bool               `bson:"is_read" json:"isRead"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

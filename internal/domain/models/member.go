// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PromotionThreshold is the visit count at which a repeat phone number is
// promoted to a tracked member.
const PromotionThreshold = 3

// Member is the derived frequent-visitor record, keyed by phone number.
// At most one member exists per phone (unique index); creation races under
// concurrent first visits resolve through upsert semantics in the store.
type Member struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID       string             `bson:"member_id,omitempty" json:"memberId,omitempty"` // optional external id
	Phone          string             `bson:"phone" json:"phone"`
	Name           string             `bson:"name" json:"name"`
	VisitCount     int                `bson:"visit_count" json:"visitCount"`
	LastVisit      time.Time          `bson:"last_visit" json:"lastVisit"`
	MemberSince    time.Time          `bson:"member_since" json:"memberSince"`
	IsAutoDetected bool               `bson:"is_auto_detected" json:"isAutoDetected"`
}

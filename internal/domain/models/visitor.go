// internal/domain/models/visitor.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Visitor is one row of the append-only entry ledger.
//
// TimeOut is nil while the visitor is on site and is set exactly once by
// checkout; the transition is enforced with a conditional update so two
// concurrent checkouts cannot both succeed. Rows are never deleted.
type Visitor struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name         string              `bson:"name" json:"name"`
	Contact      string              `bson:"contact" json:"contact"`
	Email        string              `bson:"email,omitempty" json:"email,omitempty"`
	MemberID     string              `bson:"member_id,omitempty" json:"memberId,omitempty"` // externally supplied id, if any
	Purpose      string              `bson:"purpose" json:"purpose"`
	DepartmentID *primitive.ObjectID `bson:"department_id,omitempty" json:"departmentId,omitempty"`
	PersonToMeet string              `bson:"person_to_meet" json:"personToMeet"`
	GuardID      primitive.ObjectID  `bson:"guard_id" json:"guardId"`
	GuardName    string              `bson:"guard_name,omitempty" json:"guardName,omitempty"`

	TimeIn  time.Time  `bson:"time_in" json:"timeIn"`
	TimeOut *time.Time `bson:"time_out,omitempty" json:"timeOut,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Inside reports whether the visitor is still on site.
func (v *Visitor) Inside() bool { return v.TimeOut == nil }

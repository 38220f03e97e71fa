// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles for user accounts.
const (
	RoleGuard     = "guard"
	RolePrincipal = "principal"
)

// User represents a guard or principal account.
//
// PasswordHash and PINHash hold bcrypt digests; the plaintext values are
// never persisted. Hashes are excluded from JSON so a User can be returned
// directly in API payloads.
//
// Exactly one account self-approves: the first-ever principal created while
// the users collection is empty. Every other account starts unapproved and
// waits for an approved principal to flip IsApproved. Rejection is a hard
// delete, so there is no rejected state to model.
type User struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Username     string              `bson:"username" json:"username"`
	UsernameCI   string              `bson:"username_ci" json:"-"` // lowercase, diacritics-stripped
	PasswordHash string              `bson:"password_hash" json:"-"`
	PINHash      string              `bson:"pin_hash" json:"-"`
	Role         string              `bson:"role" json:"role"` // guard | principal
	FullName     string              `bson:"full_name" json:"fullName"`
	DepartmentID *primitive.ObjectID `bson:"department_id,omitempty" json:"departmentId,omitempty"`
	IsApproved   bool                `bson:"is_approved" json:"isApproved"`

	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updatedAt"`
	LastLogin *time.Time `bson:"last_login,omitempty" json:"lastLogin,omitempty"`
}

// internal/domain/models/department.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Department is a destination a visitor can be logged against. Names are
// unique.
type Department struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	CreatedBy primitive.ObjectID `bson:"created_by" json:"createdBy"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

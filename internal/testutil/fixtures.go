package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/gatehouse/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a test account. The password and PIN hashes are dummy
// values; use the users store directly when a test exercises credentials.
func (f *Fixtures) CreateUser(ctx context.Context, username, role string, approved bool) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		UsernameCI:   text.Fold(username),
		PasswordHash: "x",
		PINHash:      "x",
		Role:         role,
		FullName:     username + " Test",
		IsApproved:   approved,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateVisitor inserts a ledger row for the given guard. timeOut nil means
// the visitor is still inside.
func (f *Fixtures) CreateVisitor(ctx context.Context, name, contact, purpose string, guardID primitive.ObjectID, timeIn time.Time) models.Visitor {
	f.t.Helper()

	v := models.Visitor{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Contact:      contact,
		Purpose:      purpose,
		PersonToMeet: "N/A",
		GuardID:      guardID,
		TimeIn:       timeIn,
		CreatedAt:    timeIn,
		UpdatedAt:    timeIn,
	}

	if _, err := f.db.Collection("visitors").InsertOne(ctx, v); err != nil {
		f.t.Fatalf("failed to create test visitor: %v", err)
	}
	return v
}

// CreateDepartment inserts a department row.
func (f *Fixtures) CreateDepartment(ctx context.Context, name string, createdBy primitive.ObjectID) models.Department {
	f.t.Helper()

	d := models.Department{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("departments").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("failed to create test department: %v", err)
	}
	return d
}

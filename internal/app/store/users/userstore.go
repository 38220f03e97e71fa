// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/gatehouse/internal/app/system/normalize"
	"github.com/dalemusser/gatehouse/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the salt rounds the rest of the deployment's records
// were hashed with.
const bcryptCost = 10

// Sentinel errors surfaced to handlers, which map them onto HTTP statuses.
var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPendingApproval    = errors.New("account is pending approval")
	ErrInvalidPIN         = errors.New("invalid PIN")
	ErrSelfDeletion       = errors.New("cannot delete your own account")
)

// Store owns the users collection.
type Store struct {
	c *mongo.Collection
}

// New creates a users Store for the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// CreateParams carries the validated signup input. Password and PIN arrive
// in plaintext and are hashed here; they are never stored.
type CreateParams struct {
	Username     string
	Password     string
	PIN          string
	FullName     string
	Role         string // guard | principal
	DepartmentID *primitive.ObjectID
}

// Create inserts a new account. The very first account ever created
// self-approves when its role is principal; every later account (any role)
// starts unapproved. A taken username returns ErrDuplicateUsername.
func (s *Store) Create(ctx context.Context, p CreateParams) (models.User, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcryptCost)
	if err != nil {
		return models.User{}, err
	}
	pinHash, err := bcrypt.GenerateFromPassword([]byte(p.PIN), bcryptCost)
	if err != nil {
		return models.User{}, err
	}

	count, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return models.User{}, err
	}
	isApproved := count == 0 && p.Role == models.RolePrincipal

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Username:     normalize.Name(p.Username),
		UsernameCI:   text.Fold(p.Username),
		PasswordHash: string(passwordHash),
		PINHash:      string(pinHash),
		Role:         p.Role,
		FullName:     p.FullName,
		DepartmentID: p.DepartmentID,
		IsApproved:   isApproved,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

// Authenticate verifies username/password and enforces the approval gate.
// Unknown usernames and wrong passwords are indistinguishable
// (ErrInvalidCredentials); a valid credential on an unapproved account
// returns ErrPendingApproval. On success LastLogin is stamped and the fresh
// user document is returned.
func (s *Store) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"username_ci": text.Fold(username)}).Decode(&u)
	switch {
	case err == mongo.ErrNoDocuments:
		return models.User{}, ErrInvalidCredentials
	case err != nil:
		return models.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if !u.IsApproved {
		return models.User{}, ErrPendingApproval
	}

	now := time.Now().UTC()
	_, err = s.c.UpdateByID(ctx, u.ID, bson.M{
		"$set": bson.M{"last_login": now, "updated_at": now},
	})
	if err != nil {
		return models.User{}, err
	}
	u.LastLogin = &now
	return u, nil
}

// ResetPassword replaces the password hash after verifying the recovery PIN.
func (s *Store) ResetPassword(ctx context.Context, username, pin, newPassword string) error {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"username_ci": text.Fold(username)}).Decode(&u)
	switch {
	case err == mongo.ErrNoDocuments:
		return ErrNotFound
	case err != nil:
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PINHash), []byte(pin)) != nil {
		return ErrInvalidPIN
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	_, err = s.c.UpdateByID(ctx, u.ID, bson.M{
		"$set": bson.M{"password_hash": string(hash), "updated_at": time.Now().UTC()},
	})
	return err
}

// FindByID fetches one account.
func (s *Store) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	return u, err
}

// Approve flips the approval flag and returns the updated account.
func (s *Store) Approve(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_approved": true, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	return u, err
}

// Delete hard-deletes an account (reject path). A principal cannot target
// their own id; that restriction exists only here, not on approve.
func (s *Store) Delete(ctx context.Context, id, actorID primitive.ObjectID) error {
	if id == actorID {
		return ErrSelfDeletion
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPending returns unapproved accounts, newest first.
func (s *Store) ListPending(ctx context.Context) ([]models.User, error) {
	return s.list(ctx, bson.M{"is_approved": false})
}

// ListAll returns every account, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.User, error) {
	return s.list(ctx, bson.M{})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.User, error) {
	cur, err := s.c.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ApprovedPrincipals returns every approved principal account; the
// notification fanout writes one row per entry.
func (s *Store) ApprovedPrincipals(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"role":        models.RolePrincipal,
		"is_approved": true,
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CountPrincipals reports how many principal accounts exist (any approval
// state). The setup probe uses it to decide if first-run bootstrap is open.
func (s *Store) CountPrincipals(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"role": models.RolePrincipal})
}

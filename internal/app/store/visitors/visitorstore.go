// internal/app/store/visitors/visitorstore.go
package visitorstore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/dalemusser/gatehouse/internal/app/system/normalize"
	"github.com/dalemusser/gatehouse/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListLimit caps every ledger list query.
const ListLimit = 100

var (
	ErrNotFound          = errors.New("visitor not found")
	ErrAlreadyCheckedOut = errors.New("visitor already checked out")
)

// Store owns the visitors collection. The ledger is append-only: rows are
// inserted by Log, mutated exactly once by Checkout, and never deleted.
type Store struct {
	c *mongo.Collection
}

// New creates a visitors Store for the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("visitors")}
}

// LogParams carries the sanitized input for one ledger entry.
type LogParams struct {
	Name         string
	Contact      string
	Email        string
	MemberID     string
	Purpose      string
	DepartmentID *primitive.ObjectID
	PersonToMeet string
	GuardID      primitive.ObjectID
	GuardName    string
}

// Log inserts a new ledger row with TimeIn=now and no TimeOut.
func (s *Store) Log(ctx context.Context, p LogParams) (models.Visitor, error) {
	if p.PersonToMeet == "" {
		p.PersonToMeet = "N/A"
	}

	now := time.Now().UTC()
	v := models.Visitor{
		ID:           primitive.NewObjectID(),
		Name:         p.Name,
		Contact:      p.Contact,
		Email:        p.Email,
		MemberID:     p.MemberID,
		Purpose:      p.Purpose,
		DepartmentID: p.DepartmentID,
		PersonToMeet: p.PersonToMeet,
		GuardID:      p.GuardID,
		GuardName:    p.GuardName,
		TimeIn:       now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return models.Visitor{}, err
	}
	return v, nil
}

// Checkout sets TimeOut on a row that does not have one yet. The transition
// is a single conditional update, so two concurrent checkouts cannot both
// observe time_out=null and both succeed. When the conditional update
// misses, a second lookup distinguishes an unknown id (ErrNotFound) from a
// completed checkout (ErrAlreadyCheckedOut).
func (s *Store) Checkout(ctx context.Context, id primitive.ObjectID) (models.Visitor, error) {
	now := time.Now().UTC()

	var v models.Visitor
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "time_out": nil},
		bson.M{"$set": bson.M{"time_out": now, "updated_at": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&v)
	if err == nil {
		return v, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Visitor{}, err
	}

	// Miss: either the id is unknown or the row is already closed.
	err = s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	switch {
	case err == mongo.ErrNoDocuments:
		return models.Visitor{}, ErrNotFound
	case err != nil:
		return models.Visitor{}, err
	default:
		return models.Visitor{}, ErrAlreadyCheckedOut
	}
}

// FindByID fetches one ledger row.
func (s *Store) FindByID(ctx context.Context, id primitive.ObjectID) (models.Visitor, error) {
	var v models.Visitor
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return models.Visitor{}, ErrNotFound
	}
	return v, err
}

// Filter narrows a ledger list query. A nil GuardID means "all guards"
// (principal view); handlers set it for guard-scoped lists.
type Filter struct {
	GuardID      *primitive.ObjectID
	DepartmentID *primitive.ObjectID
	Start        *time.Time // inclusive lower bound on time_in
	End          *time.Time // inclusive upper bound on time_in
	Search       string     // case-insensitive substring over name/contact/person_to_meet
}

// Query converts the filter into a Mongo query document.
func (f Filter) Query() bson.M {
	q := bson.M{}

	if f.GuardID != nil {
		q["guard_id"] = *f.GuardID
	}
	if f.DepartmentID != nil {
		q["department_id"] = *f.DepartmentID
	}

	if f.Start != nil || f.End != nil {
		window := bson.M{}
		if f.Start != nil {
			window["$gte"] = *f.Start
		}
		if f.End != nil {
			window["$lte"] = *f.End
		}
		q["time_in"] = window
	}

	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		// Stored contacts are phone-folded, so a punctuated search term
		// ("555-0001") must be folded the same way to match them.
		contact := pattern
		if folded := normalize.Phone(f.Search); folded != "" {
			contact = primitive.Regex{Pattern: regexp.QuoteMeta(folded), Options: "i"}
		}
		q["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"contact": contact},
			bson.M{"person_to_meet": pattern},
		}
	}

	return q
}

// List returns up to ListLimit rows matching the filter, newest time_in
// first.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Visitor, error) {
	cur, err := s.c.Find(ctx, f.Query(),
		options.Find().
			SetSort(bson.D{{Key: "time_in", Value: -1}}).
			SetLimit(ListLimit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var visitors []models.Visitor
	if err := cur.All(ctx, &visitors); err != nil {
		return nil, err
	}
	return visitors, nil
}

// ExportLimit caps report exports well above the interactive ListLimit.
const ExportLimit = 5000

// Export returns rows for a report download, oldest time_in first so the
// document reads chronologically. Capped at ExportLimit.
func (s *Store) Export(ctx context.Context, f Filter) ([]models.Visitor, error) {
	cur, err := s.c.Find(ctx, f.Query(),
		options.Find().
			SetSort(bson.D{{Key: "time_in", Value: 1}}).
			SetLimit(ExportLimit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var visitors []models.Visitor
	if err := cur.All(ctx, &visitors); err != nil {
		return nil, err
	}
	return visitors, nil
}

// ListByContact returns the visit history for one phone number, newest
// first, capped at limit.
func (s *Store) ListByContact(ctx context.Context, contact string, limit int64) ([]models.Visitor, error) {
	cur, err := s.c.Find(ctx, bson.M{"contact": contact},
		options.Find().
			SetSort(bson.D{{Key: "time_in", Value: -1}}).
			SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var visitors []models.Visitor
	if err := cur.All(ctx, &visitors); err != nil {
		return nil, err
	}
	return visitors, nil
}

// CountByContact reports how many ledger rows share a phone number,
// including the row just written. The membership tracker uses it for the
// promotion decision.
func (s *Store) CountByContact(ctx context.Context, contact string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"contact": contact})
}

// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/dalemusser/gatehouse/internal/app/system/normalize"
	"github.com/dalemusser/gatehouse/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListLimit caps member list queries.
const ListLimit = 100

var ErrNotFound = errors.New("member not found")

// Store owns the members collection: the derived frequent-visitor index
// keyed by phone number. The unique index on phone makes the promotion path
// safe under concurrent first visits.
type Store struct {
	c *mongo.Collection
}

// New creates a members Store for the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("members")}
}

// ShouldPromote reports whether a phone with the given total ledger count
// (including the visit just logged) crosses the promotion threshold.
func ShouldPromote(ledgerCount int64) bool {
	return ledgerCount >= models.PromotionThreshold
}

// VisitParams describes one just-logged visit for tracking purposes.
// LedgerCount is the total number of ledger rows for the phone, including
// the row that triggered tracking.
type VisitParams struct {
	Phone       string
	Name        string
	MemberID    string // externally supplied id, optional
	LedgerCount int64
}

// RecordVisit applies the membership rule for one logged visit:
//
//   - an existing member (matched by phone, or by external member id when
//     supplied) gets visit_count incremented and last_visit stamped, with
//     the external id backfilled if the record lacks one;
//   - an unknown phone at or past the promotion threshold becomes a new
//     member carrying the full ledger count, auto-detected unless an
//     external id was supplied;
//   - below the threshold nothing is written.
//
// A duplicate-key error on the insert means a concurrent visit created the
// member first; the visit is then re-applied as an increment rather than
// failing. Returns the member row when one exists after the call, nil when
// the phone is still below threshold.
func (s *Store) RecordVisit(ctx context.Context, p VisitParams) (*models.Member, error) {
	now := time.Now().UTC()

	// Existing member: increment in a single update.
	m, err := s.increment(ctx, p, now)
	if err == nil {
		return m, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	if !ShouldPromote(p.LedgerCount) {
		return nil, nil
	}

	member := models.Member{
		ID:             primitive.NewObjectID(),
		MemberID:       p.MemberID,
		Phone:          p.Phone,
		Name:           p.Name,
		VisitCount:     int(p.LedgerCount),
		LastVisit:      now,
		MemberSince:    now,
		IsAutoDetected: p.MemberID == "",
	}
	if _, err := s.c.InsertOne(ctx, member); err != nil {
		if wafflemongo.IsDup(err) {
			// Lost the race with a concurrent promotion: count this visit
			// on the row the winner created.
			return s.incrementRetry(ctx, p, now)
		}
		return nil, err
	}
	return &member, nil
}

func (s *Store) increment(ctx context.Context, p VisitParams, now time.Time) (*models.Member, error) {
	match := bson.M{"phone": p.Phone}
	if p.MemberID != "" {
		match = bson.M{"$or": bson.A{
			bson.M{"phone": p.Phone},
			bson.M{"member_id": p.MemberID},
		}}
	}

	var m models.Member
	err := s.c.FindOneAndUpdate(ctx, match,
		bson.M{
			"$inc": bson.M{"visit_count": 1},
			"$set": bson.M{"last_visit": now},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&m)
	if err != nil {
		return nil, err
	}

	// Backfill the external id onto records that never had one.
	if p.MemberID != "" && m.MemberID == "" {
		if _, err := s.c.UpdateByID(ctx, m.ID, bson.M{
			"$set": bson.M{"member_id": p.MemberID},
		}); err == nil {
			m.MemberID = p.MemberID
		}
	}
	return &m, nil
}

func (s *Store) incrementRetry(ctx context.Context, p VisitParams, now time.Time) (*models.Member, error) {
	m, err := s.increment(ctx, p, now)
	if err == mongo.ErrNoDocuments {
		// The conflicting row vanished between insert and retry; members
		// are never deleted, so this is not expected. Report it rather
		// than loop.
		return nil, ErrNotFound
	}
	return m, err
}

// Sort orders accepted by List.
const (
	SortByVisits = "visitCount"
	SortByRecent = "recent"
	SortByName   = "name"
)

// List returns members matching an optional case-insensitive search across
// name, phone, and external id, capped at ListLimit.
func (s *Store) List(ctx context.Context, search, sortBy string) ([]models.Member, error) {
	q := bson.M{}
	if search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		// Stored phones are folded, so a punctuated search term must be
		// folded the same way to match them.
		phone := pattern
		if folded := normalize.Phone(search); folded != "" {
			phone = primitive.Regex{Pattern: regexp.QuoteMeta(folded), Options: "i"}
		}
		q["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"phone": phone},
			bson.M{"member_id": pattern},
		}
	}

	var sort bson.D
	switch sortBy {
	case SortByRecent:
		sort = bson.D{{Key: "last_visit", Value: -1}}
	case SortByName:
		sort = bson.D{{Key: "name", Value: 1}}
	default:
		sort = bson.D{{Key: "visit_count", Value: -1}}
	}

	cur, err := s.c.Find(ctx, q,
		options.Find().SetSort(sort).SetLimit(ListLimit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var members []models.Member
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// FindByID fetches one member.
func (s *Store) FindByID(ctx context.Context, id primitive.ObjectID) (models.Member, error) {
	var m models.Member
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return models.Member{}, ErrNotFound
	}
	return m, err
}

// Update edits the admin-editable fields and returns the updated member.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, name, memberID string) (models.Member, error) {
	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	if memberID != "" {
		set["member_id"] = memberID
	}
	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}

	var m models.Member
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return models.Member{}, ErrNotFound
	}
	return m, err
}

// CountAll reports the total member population.
func (s *Store) CountAll(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// CountSince reports members promoted at or after the given time.
func (s *Store) CountSince(ctx context.Context, t time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"member_since": bson.M{"$gte": t}})
}

// TopByVisits returns the most frequent visitors, highest count first.
func (s *Store) TopByVisits(ctx context.Context, limit int64) ([]models.Member, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "visit_count", Value: -1}}).
			SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var members []models.Member
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// TrendBucket is one month of member growth.
type TrendBucket struct {
	Month        string `bson:"_id" json:"month"` // YYYY-MM
	NewMembers   int    `bson:"new_members" json:"newMembers"`
	AutoDetected int    `bson:"auto_detected" json:"autoDetected"`
}

// Trend groups member creation by calendar month since the given time,
// splitting out auto-detected promotions.
func (s *Store) Trend(ctx context.Context, since time.Time) ([]TrendBucket, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"member_since": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m",
				"date":   "$member_since",
			}},
			"new_members": bson.M{"$sum": 1},
			"auto_detected": bson.M{"$sum": bson.M{
				"$cond": bson.A{"$is_auto_detected", 1, 0},
			}},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var buckets []TrendBucket
	if err := cur.All(ctx, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

// internal/app/store/notifications/notificationstore.go
package notificationstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/gatehouse/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListLimit caps inbox queries.
const ListLimit = 50

var ErrNotFound = errors.New("notification not found")

// Store owns the notifications collection. Rows are written by the visitor
// fanout, flipped by markRead, and (optionally) deleted by their owner.
type Store struct {
	c *mongo.Collection
}

// New creates a notifications Store for the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

// VisitorLoggedMessage formats the inbox message for a logged visitor.
func VisitorLoggedMessage(name, contact, purpose, guard string) string {
	return fmt.Sprintf("%s (%s) - %s. Logged by %s", name, contact, purpose, guard)
}

// FanOut writes one visitor-logged row per recipient. Zero recipients is a
// no-op, not an error. The insert is unordered so one bad row cannot stop
// the rest.
func (s *Store) FanOut(ctx context.Context, v models.Visitor, guardName string, recipients []models.User) error {
	if len(recipients) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([]any, 0, len(recipients))
	for _, r := range recipients {
		rows = append(rows, models.Notification{
			ID:        primitive.NewObjectID(),
			UserID:    r.ID,
			VisitorID: v.ID,
			Title:     "New Visitor Logged",
			Message:   VisitorLoggedMessage(v.Name, v.Contact, v.Purpose, guardName),
			Type:      models.NotifyVisitorLogged,
			IsRead:    false,
			CreatedAt: now,
		})
	}

	_, err := s.c.InsertMany(ctx, rows, options.InsertMany().SetOrdered(false))
	return err
}

// ListForUser returns the newest rows owned by userID, capped at ListLimit.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(ListLimit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.Notification
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CountUnread reports the unread rows owned by userID.
func (s *Store) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": userID, "is_read": false})
}

// MarkRead flips one row owned by userID. Rows owned by someone else are
// invisible (ErrNotFound), not forbidden.
func (s *Store) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead flips every unread row owned by userID and returns how many
// were flipped.
func (s *Store) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Delete removes one row owned by userID.
func (s *Store) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

The unique index on members.phone is load-bearing: the membership tracker's
upsert relies on it to close the find-or-create race under concurrent first
visits from the same phone.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureVisitors(ctx, db); err != nil {
		problems = append(problems, "visitors: "+err.Error())
	}
	if err := ensureMembers(ctx, db); err != nil {
		problems = append(problems, "members: "+err.Error())
	}
	if err := ensureNotifications(ctx, db); err != nil {
		problems = append(problems, "notifications: "+err.Error())
	}
	if err := ensureDepartments(ctx, db); err != nil {
		problems = append(problems, "departments: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collections                                                                */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username_ci", Value: 1}},
			Options: options.Index().SetName("uniq_username_ci").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "is_approved", Value: 1}},
			Options: options.Index().SetName("role_approved"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_desc"),
		},
	})
}

func ensureVisitors(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("visitors"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "contact", Value: 1}},
			Options: options.Index().SetName("contact"),
		},
		{
			Keys:    bson.D{{Key: "time_in", Value: -1}},
			Options: options.Index().SetName("time_in_desc"),
		},
		{
			Keys:    bson.D{{Key: "department_id", Value: 1}, {Key: "time_in", Value: -1}},
			Options: options.Index().SetName("dept_time_in"),
		},
		{
			Keys:    bson.D{{Key: "guard_id", Value: 1}, {Key: "time_in", Value: -1}},
			Options: options.Index().SetName("guard_time_in"),
		},
		{
			Keys:    bson.D{{Key: "time_out", Value: 1}},
			Options: options.Index().SetName("time_out"),
		},
	})
}

func ensureMembers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("members"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetName("uniq_phone").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "member_id", Value: 1}},
			Options: options.Index().SetName("uniq_member_id").SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "visit_count", Value: -1}},
			Options: options.Index().SetName("visit_count_desc"),
		},
	})
}

func ensureNotifications(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("notifications"), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "is_read", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("user_read_created"),
		},
	})
}

func ensureDepartments(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("departments"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("uniq_name_ci").SetUnique(true),
		},
	})
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := a != nil && *a
	bv := b != nil && *b
	return av == bv
}

// IsDuplicateKeyErr is a best-effort duplicate detector (works
// cross-vendors: Mongo, DocumentDB).
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	existing, err := listIndexes(ctx, coll)
	if err != nil {
		zap.L().Warn("listing existing indexes failed; creating blind",
			zap.String("collection", coll.Name()),
			zap.Error(err))
		existing = map[string]existingIndex{}
	}

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		desiredSig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[desiredSig]; ok {
			if sameBoolPtr(desiredUnique, ex.Unique) {
				// Same keys, same uniqueness: reuse whatever name it has.
				continue
			}
			// Options mismatch (e.g., upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if IsDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			}
			continue
		}

		zap.L().Info("index created",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := map[string]existingIndex{} // sig -> index
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing, cur.Err()
}

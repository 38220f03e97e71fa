// internal/app/store/visitors/analytics.go
package visitorstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CountAll returns the total number of ledger rows.
func (s *Store) CountAll(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// CountSince counts entries whose check-in falls at or after t.
func (s *Store) CountSince(ctx context.Context, t time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"time_in": bson.M{"$gte": t}})
}

// CountInside counts visitors who have not checked out yet.
func (s *Store) CountInside(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"time_out": nil})
}

// DayBucket is one calendar day of check-ins.
type DayBucket struct {
	Day   string `bson:"_id" json:"date"` // YYYY-MM-DD
	Count int    `bson:"count" json:"count"`
}

// CountByDay groups check-ins since t into calendar-day buckets, ascending.
func (s *Store) CountByDay(ctx context.Context, since time.Time) ([]DayBucket, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"time_in": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$time_in"}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []DayBucket
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MonthBucket is one calendar month of check-ins.
type MonthBucket struct {
	Month string `bson:"_id" json:"month"` // YYYY-MM
	Count int    `bson:"count" json:"count"`
}

// CountByMonth groups check-ins since t into calendar-month buckets,
// ascending.
func (s *Store) CountByMonth(ctx context.Context, since time.Time) ([]MonthBucket, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"time_in": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$time_in"}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []MonthBucket
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DepartmentBucket is a per-department visit tally. Name is empty when the
// department has since been deleted.
type DepartmentBucket struct {
	DepartmentID primitive.ObjectID `bson:"_id" json:"departmentId"`
	Name         string             `bson:"name" json:"name"`
	Count        int                `bson:"count" json:"count"`
}

// CountByDepartment tallies entries per department, joining the department
// name, busiest first.
func (s *Store) CountByDepartment(ctx context.Context) ([]DepartmentBucket, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"department_id": bson.M{"$ne": nil}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$department_id",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "departments",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "dept",
		}}},
		{{Key: "$project", Value: bson.M{
			"count": 1,
			"name":  bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$dept.name", 0}}, ""}},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []DepartmentBucket
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

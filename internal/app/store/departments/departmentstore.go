// internal/app/store/departments/departmentstore.go
package departmentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/gatehouse/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound      = errors.New("department not found")
	ErrDuplicateName = errors.New("department already exists")
)

// Store owns the departments collection.
type Store struct {
	c *mongo.Collection
}

// New creates a departments Store for the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("departments")}
}

// Create inserts a department. Names are unique case-insensitively.
func (s *Store) Create(ctx context.Context, name string, createdBy primitive.ObjectID) (models.Department, error) {
	d := models.Department{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Department{}, ErrDuplicateName
		}
		return models.Department{}, err
	}
	return d, nil
}

// List returns every department sorted by name.
func (s *Store) List(ctx context.Context) ([]models.Department, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var departments []models.Department
	if err := cur.All(ctx, &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

// Rename updates a department's name and returns the updated row.
func (s *Store) Rename(ctx context.Context, id primitive.ObjectID, name string) (models.Department, error) {
	var d models.Department
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"name": name, "name_ci": text.Fold(name)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	switch {
	case err == mongo.ErrNoDocuments:
		return models.Department{}, ErrNotFound
	case wafflemongo.IsDup(err):
		return models.Department{}, ErrDuplicateName
	}
	return d, err
}

// Delete removes a department.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

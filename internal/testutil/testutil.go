// Package testutil provides shared helpers for store and handler tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dalemusser/gatehouse/internal/app/system/indexes"
)

// TestContext returns a context with a generous timeout for test operations.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// SetupTestDB connects to the Mongo instance named by GATEHOUSE_TEST_MONGO_URI
// and returns a uniquely named throwaway database that is dropped during
// cleanup. Tests that need a live database are skipped when the variable is
// unset, so the pure-logic suite still runs everywhere.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("GATEHOUSE_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("GATEHOUSE_TEST_MONGO_URI not set; skipping database-backed test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("mongo connect failed: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		t.Fatalf("mongo ping failed: %v", err)
	}

	dbName := fmt.Sprintf("gatehouse_test_%d", time.Now().UnixNano())
	db := client.Database(dbName)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}

// EnsureIndexes builds the production index set on a test database. Tests
// that exercise unique-index behavior (duplicate usernames, the member
// promotion race) call it after SetupTestDB.
func EnsureIndexes(t *testing.T, db *mongo.Database) {
	t.Helper()

	ctx, cancel := TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes failed: %v", err)
	}
}

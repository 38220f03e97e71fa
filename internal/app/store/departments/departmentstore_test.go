package departmentstore_test

import (
	"testing"

	departmentstore "github.com/dalemusser/gatehouse/internal/app/store/departments"
	"github.com/dalemusser/gatehouse/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.EnsureIndexes(t, db)
	store := departmentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()

	if _, err := store.Create(ctx, "Science", creator); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Case-insensitive collision.
	if _, err := store.Create(ctx, "SCIENCE", creator); err != departmentstore.ErrDuplicateName {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestStore_RenameAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.EnsureIndexes(t, db)
	store := departmentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	d, err := store.Create(ctx, "Math", creator)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, "Arts", creator); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	renamed, err := store.Rename(ctx, d.ID, "Mathematics")
	if err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if renamed.Name != "Mathematics" {
		t.Errorf("rename not applied: %+v", renamed)
	}

	if _, err := store.Rename(ctx, d.ID, "Arts"); err != departmentstore.ErrDuplicateName {
		t.Errorf("rename onto taken name: expected ErrDuplicateName, got %v", err)
	}
	if _, err := store.Rename(ctx, primitive.NewObjectID(), "Ghost"); err != departmentstore.ErrNotFound {
		t.Errorf("unknown id: expected ErrNotFound, got %v", err)
	}

	if err := store.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, d.ID); err != departmentstore.ErrNotFound {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Arts" {
		t.Fatalf("unexpected list after delete: %v", list)
	}
}

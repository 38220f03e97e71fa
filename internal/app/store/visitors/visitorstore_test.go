package visitorstore_test

import (
	"testing"
	"time"

	visitorstore "github.com/dalemusser/gatehouse/internal/app/store/visitors"
	"github.com/dalemusser/gatehouse/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFilter_Query(t *testing.T) {
	guardID := primitive.NewObjectID()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)

	t.Run("empty filter matches everything", func(t *testing.T) {
		q := visitorstore.Filter{}.Query()
		if len(q) != 0 {
			t.Errorf("expected empty query, got %v", q)
		}
	})

	t.Run("guard scope", func(t *testing.T) {
		q := visitorstore.Filter{GuardID: &guardID}.Query()
		if q["guard_id"] != guardID {
			t.Errorf("expected guard_id=%v, got %v", guardID, q["guard_id"])
		}
	})

	t.Run("date window", func(t *testing.T) {
		q := visitorstore.Filter{Start: &start, End: &end}.Query()
		window, ok := q["time_in"].(bson.M)
		if !ok {
			t.Fatalf("expected time_in window, got %v", q["time_in"])
		}
		if window["$gte"] != start || window["$lte"] != end {
			t.Errorf("unexpected window %v", window)
		}
	})

	t.Run("start only", func(t *testing.T) {
		q := visitorstore.Filter{Start: &start}.Query()
		window := q["time_in"].(bson.M)
		if _, has := window["$lte"]; has {
			t.Error("end bound should be absent")
		}
	})

	t.Run("punctuated phone search matches folded contacts", func(t *testing.T) {
		q := visitorstore.Filter{Search: "555-0001"}.Query()
		or := q["$or"].(bson.A)
		contact := or[1].(bson.M)["contact"].(primitive.Regex)
		if contact.Pattern != "5550001" {
			t.Errorf("expected folded contact pattern 5550001, got %q", contact.Pattern)
		}
		// Name matching keeps the term as entered.
		name := or[0].(bson.M)["name"].(primitive.Regex)
		if name.Pattern != `555\-0001` && name.Pattern != "555-0001" {
			t.Errorf("unexpected name pattern %q", name.Pattern)
		}
	})

	t.Run("search is quoted and case-insensitive", func(t *testing.T) {
		q := visitorstore.Filter{Search: "a.b(c"}.Query()
		or, ok := q["$or"].(bson.A)
		if !ok || len(or) != 3 {
			t.Fatalf("expected 3-way $or, got %v", q["$or"])
		}
		rx := or[0].(bson.M)["name"].(primitive.Regex)
		if rx.Options != "i" {
			t.Errorf("expected case-insensitive regex, got options %q", rx.Options)
		}
		if rx.Pattern == "a.b(c" {
			t.Error("regex metacharacters must be escaped")
		}
	})
}

func TestStore_Checkout(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := visitorstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	guard := fixtures.CreateUser(ctx, "guard1", "guard", true)
	v := fixtures.CreateVisitor(ctx, "Alice Vendor", "5550001", "Delivery", guard.ID, time.Now().UTC())

	out, err := store.Checkout(ctx, v.ID)
	if err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}
	if out.TimeOut == nil {
		t.Fatal("expected TimeOut to be stamped")
	}

	// Second checkout of the same row must conflict, not re-stamp.
	if _, err := store.Checkout(ctx, v.ID); err != visitorstore.ErrAlreadyCheckedOut {
		t.Fatalf("expected ErrAlreadyCheckedOut, got %v", err)
	}

	if _, err := store.Checkout(ctx, primitive.NewObjectID()); err != visitorstore.ErrNotFound {
		t.Fatalf("unknown id: expected ErrNotFound, got %v", err)
	}
}

func TestStore_Log_DefaultsPersonToMeet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := visitorstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	v, err := store.Log(ctx, visitorstore.LogParams{
		Name:      "Bob Parent",
		Contact:   "5550002",
		Purpose:   "Meeting",
		GuardID:   primitive.NewObjectID(),
		GuardName: "Gate Guard",
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if v.PersonToMeet != "N/A" {
		t.Errorf("expected PersonToMeet default N/A, got %q", v.PersonToMeet)
	}
	if v.TimeOut != nil {
		t.Error("a fresh entry must not have a checkout time")
	}
	if !v.Inside() {
		t.Error("a fresh entry should report Inside")
	}
}

func TestStore_List_ScopesAndSearches(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := visitorstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	guardA := fixtures.CreateUser(ctx, "guarda", "guard", true)
	guardB := fixtures.CreateUser(ctx, "guardb", "guard", true)

	now := time.Now().UTC()
	fixtures.CreateVisitor(ctx, "Carol Vendor", "5550003", "Delivery", guardA.ID, now.Add(-2*time.Hour))
	fixtures.CreateVisitor(ctx, "Dan Parent", "5550004", "Pickup", guardA.ID, now.Add(-time.Hour))
	fixtures.CreateVisitor(ctx, "Eve Auditor", "5550005", "Inspection", guardB.ID, now)

	scoped, err := store.List(ctx, visitorstore.Filter{GuardID: &guardA.ID})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(scoped) != 2 {
		t.Fatalf("expected 2 rows for guard A, got %d", len(scoped))
	}
	// Newest first.
	if scoped[0].Name != "Dan Parent" {
		t.Errorf("expected newest row first, got %q", scoped[0].Name)
	}

	found, err := store.List(ctx, visitorstore.Filter{Search: "carol"})
	if err != nil {
		t.Fatalf("List with search failed: %v", err)
	}
	if len(found) != 1 || found[0].Name != "Carol Vendor" {
		t.Fatalf("case-insensitive search failed: %v", found)
	}

	// The ledger stores folded contacts; a search with punctuation still hits.
	byPhone, err := store.List(ctx, visitorstore.Filter{Search: "555-0003"})
	if err != nil {
		t.Fatalf("List with phone search failed: %v", err)
	}
	if len(byPhone) != 1 || byPhone[0].Name != "Carol Vendor" {
		t.Fatalf("punctuated phone search failed: %v", byPhone)
	}
}

func TestStore_CountByContact(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := visitorstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	guard := fixtures.CreateUser(ctx, "guard1", "guard", true)
	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		fixtures.CreateVisitor(ctx, "Frank Regular", "5550006", "Visit", guard.ID, now.Add(time.Duration(-i)*time.Hour))
	}

	n, err := store.CountByContact(ctx, "5550006")
	if err != nil {
		t.Fatalf("CountByContact failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3, got %d", n)
	}
}

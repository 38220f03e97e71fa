package memberstore_test

import (
	"testing"
	"time"

	memberstore "github.com/dalemusser/gatehouse/internal/app/store/members"
	"github.com/dalemusser/gatehouse/internal/domain/models"
	"github.com/dalemusser/gatehouse/internal/testutil"
)

func TestShouldPromote(t *testing.T) {
	tests := []struct {
		count int64
		want  bool
	}{
		{0, false},
		{1, false},
		{2, false},
		{3, true},
		{4, true},
		{100, true},
	}
	for _, tc := range tests {
		if got := memberstore.ShouldPromote(tc.count); got != tc.want {
			t.Errorf("ShouldPromote(%d) = %v, want %v", tc.count, got, tc.want)
		}
	}
}

func TestStore_RecordVisit_PromotionAtThreshold(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.EnsureIndexes(t, db)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Visits one and two stay below the threshold: no roster row.
	for count := int64(1); count < models.PromotionThreshold; count++ {
		m, err := store.RecordVisit(ctx, memberstore.VisitParams{
			Phone:       "5551000",
			Name:        "Grace Regular",
			LedgerCount: count,
		})
		if err != nil {
			t.Fatalf("RecordVisit(%d) failed: %v", count, err)
		}
		if m != nil {
			t.Fatalf("visit %d: expected no member yet, got %+v", count, m)
		}
	}

	// The third visit promotes, carrying the full ledger count.
	m, err := store.RecordVisit(ctx, memberstore.VisitParams{
		Phone:       "5551000",
		Name:        "Grace Regular",
		LedgerCount: 3,
	})
	if err != nil {
		t.Fatalf("RecordVisit(3) failed: %v", err)
	}
	if m == nil {
		t.Fatal("expected promotion on the third visit")
	}
	if m.VisitCount != 3 {
		t.Errorf("expected VisitCount 3 at promotion, got %d", m.VisitCount)
	}
	if !m.IsAutoDetected {
		t.Error("promotion without an external id must be auto-detected")
	}

	// The fourth visit increments the existing row.
	m, err = store.RecordVisit(ctx, memberstore.VisitParams{
		Phone:       "5551000",
		Name:        "Grace Regular",
		LedgerCount: 4,
	})
	if err != nil {
		t.Fatalf("RecordVisit(4) failed: %v", err)
	}
	if m == nil || m.VisitCount != 4 {
		t.Fatalf("expected VisitCount 4 after fourth visit, got %+v", m)
	}
}

func TestStore_RecordVisit_ExternalIDBackfill(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.EnsureIndexes(t, db)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Promote without an external id first.
	if _, err := store.RecordVisit(ctx, memberstore.VisitParams{
		Phone: "5551001", Name: "Henry Member", LedgerCount: 3,
	}); err != nil {
		t.Fatalf("promotion failed: %v", err)
	}

	// A later visit carrying the card id backfills it.
	m, err := store.RecordVisit(ctx, memberstore.VisitParams{
		Phone: "5551001", Name: "Henry Member", MemberID: "M-0042", LedgerCount: 4,
	})
	if err != nil {
		t.Fatalf("RecordVisit with member id failed: %v", err)
	}
	if m.MemberID != "M-0042" {
		t.Errorf("expected backfilled member id, got %q", m.MemberID)
	}
}

func TestStore_List_SortOrders(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.EnsureIndexes(t, db)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	seed := []struct {
		phone string
		name  string
		count int64
	}{
		{"5552001", "Alpha", 3},
		{"5552002", "Bravo", 5},
		{"5552003", "Charlie", 4},
	}
	for _, s := range seed {
		if _, err := store.RecordVisit(ctx, memberstore.VisitParams{
			Phone: s.phone, Name: s.name, LedgerCount: s.count,
		}); err != nil {
			t.Fatalf("seed %s failed: %v", s.name, err)
		}
	}

	byVisits, err := store.List(ctx, "", memberstore.SortByVisits)
	if err != nil {
		t.Fatalf("List by visits failed: %v", err)
	}
	if len(byVisits) != 3 || byVisits[0].Name != "Bravo" {
		t.Fatalf("expected Bravo first by visit count, got %v", byVisits)
	}

	byName, err := store.List(ctx, "", memberstore.SortByName)
	if err != nil {
		t.Fatalf("List by name failed: %v", err)
	}
	if byName[0].Name != "Alpha" {
		t.Errorf("expected Alpha first by name, got %q", byName[0].Name)
	}

	found, err := store.List(ctx, "brav", memberstore.SortByName)
	if err != nil {
		t.Fatalf("List with search failed: %v", err)
	}
	if len(found) != 1 || found[0].Name != "Bravo" {
		t.Fatalf("search failed: %v", found)
	}

	// Stored phones are folded; a punctuated search term still finds them.
	byPhone, err := store.List(ctx, "555-2002", memberstore.SortByName)
	if err != nil {
		t.Fatalf("List with phone search failed: %v", err)
	}
	if len(byPhone) != 1 || byPhone[0].Name != "Bravo" {
		t.Fatalf("punctuated phone search failed: %v", byPhone)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.EnsureIndexes(t, db)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m, err := store.RecordVisit(ctx, memberstore.VisitParams{
		Phone: "5553001", Name: "Old Name", LedgerCount: 3,
	})
	if err != nil || m == nil {
		t.Fatalf("seed failed: %v", err)
	}

	updated, err := store.Update(ctx, m.ID, "New Name", "M-7")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "New Name" || updated.MemberID != "M-7" {
		t.Errorf("update not applied: %+v", updated)
	}

	history := time.Since(updated.MemberSince)
	if history < 0 {
		t.Error("MemberSince should not move forward on update")
	}
}

package visitors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	memberstore "github.com/dalemusser/gatehouse/internal/app/store/members"
	notificationstore "github.com/dalemusser/gatehouse/internal/app/store/notifications"
	userstore "github.com/dalemusser/gatehouse/internal/app/store/users"
	visitorstore "github.com/dalemusser/gatehouse/internal/app/store/visitors"
	sysauth "github.com/dalemusser/gatehouse/internal/app/system/auth"
	"github.com/dalemusser/gatehouse/internal/domain/models"
	"github.com/dalemusser/gatehouse/internal/testutil"
)

// deadDatabase returns a database handle whose client is already
// disconnected, so every operation on it fails.
func deadDatabase(t *testing.T) *mongo.Database {
	t.Helper()

	ctx, cancel := testutil.TestContext()
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(os.Getenv("GATEHOUSE_TEST_MONGO_URI")))
	if err != nil {
		t.Fatalf("mongo connect failed: %v", err)
	}
	if err := client.Disconnect(ctx); err != nil {
		t.Fatalf("disconnect failed: %v", err)
	}
	return client.Database("gatehouse_dead")
}

func TestHandleLog_SideEffectFailuresKeepEntry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	dead := deadDatabase(t)

	// The ledger write lands on the live database; the member tally and
	// notification fanout hit a dead one and must be swallowed.
	h := &Handler{
		Log:           zap.NewNop(),
		Visitors:      visitorstore.New(db),
		Members:       memberstore.New(dead),
		Notifications: notificationstore.New(dead),
		Users:         userstore.New(dead),
	}

	body := `{"name":"Ivy Vendor","contact":"555-0007","purpose":"Delivery"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req = sysauth.WithTestUser(req, &sysauth.SessionUser{
		ID:       primitive.NewObjectID().Hex(),
		Role:     models.RoleGuard,
		FullName: "Gate Guard",
	})
	rec := httptest.NewRecorder()
	h.HandleLog(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp struct {
		Success bool            `json:"success"`
		Visitor *models.Visitor `json:"visitor"`
		Member  *models.Member  `json:"member"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Visitor == nil {
		t.Fatal("expected a successful visitor payload")
	}
	if resp.Visitor.Contact != "5550007" {
		t.Errorf("expected folded contact, got %q", resp.Visitor.Contact)
	}
	if resp.Member != nil {
		t.Error("failed member tally must not surface a member in the payload")
	}

	// The entry really is in the ledger.
	store := visitorstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	n, err := store.CountByContact(ctx, "5550007")
	if err != nil {
		t.Fatalf("CountByContact failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 ledger row, got %d", n)
	}
}

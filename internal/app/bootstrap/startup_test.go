package bootstrap

import (
	"testing"

	"github.com/dalemusser/colloquy/internal/domain/models"
	"github.com/dalemusser/colloquy/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureDefaultGroup_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{ColloquyMongoDatabase: db}

	if err := ensureDefaultGroup(ctx, deps, "General", testLogger()); err != nil {
		t.Fatalf("ensureDefaultGroup failed: %v", err)
	}

	var group models.Group
	err := db.Collection("groups").FindOne(ctx, bson.M{"name": "General"}).Decode(&group)
	if err != nil {
		t.Fatalf("failed to find seeded group: %v", err)
	}
	if group.Status != "active" {
		t.Errorf("expected status 'active', got %q", group.Status)
	}
	if group.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestEnsureDefaultGroup_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{ColloquyMongoDatabase: db}

	if err := ensureDefaultGroup(ctx, deps, "General", testLogger()); err != nil {
		t.Fatalf("first ensureDefaultGroup failed: %v", err)
	}
	if err := ensureDefaultGroup(ctx, deps, "General", testLogger()); err != nil {
		t.Fatalf("second ensureDefaultGroup failed: %v", err)
	}

	n, err := db.Collection("groups").CountDocuments(ctx, bson.M{"name": "General"})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("group count: got %d, want 1", n)
	}
}

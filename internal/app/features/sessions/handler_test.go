package sessions_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/colloquy/internal/app/features/sessions"
	"github.com/dalemusser/colloquy/internal/domain/models"
	"github.com/dalemusser/colloquy/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*sessions.Handler, *testutil.Fixtures, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := sessions.NewHandler(db, "", zap.NewNop())
	return h, testutil.NewFixtures(t, db), db
}

func TestCreate(t *testing.T) {
	h, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "Ada", "Lovelace", "ada@test.com")
	group := fixtures.CreateGroup(ctx, "Analysis Club")

	body := `{"title":"Bernoulli Numbers","user_id":"` + user.ID.Hex() + `","group_id":"` + group.ID.Hex() + `"}`
	req := httptest.NewRequest("POST", "/api/sessions", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var view models.SessionView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if view.Title != "Bernoulli Numbers" {
		t.Errorf("title: got %q, want %q", view.Title, "Bernoulli Numbers")
	}
	if view.Status != models.SessionActive {
		t.Errorf("status: got %q, want %q", view.Status, models.SessionActive)
	}
	if view.ParticipantCount != 0 {
		t.Errorf("participant count: got %d, want 0", view.ParticipantCount)
	}
}

func TestCreate_CallerIdentityFallback(t *testing.T) {
	h, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "Ada", "Lovelace", "ada@test.com")
	group := fixtures.CreateGroup(ctx, "Analysis Club")

	body := `{"group_id":"` + group.ID.Hex() + `"}`
	req := httptest.NewRequest("POST", "/api/sessions", strings.NewReader(body))
	req = testutil.WithCaller(req, user.ID, "Ada Lovelace")
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var view models.SessionView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if view.CreatedBy != user.ID {
		t.Errorf("created_by: got %v, want %v", view.CreatedBy, user.ID)
	}
}

func TestCreate_InvalidUserID(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest("POST", "/api/sessions", strings.NewReader(`{"user_id":"nope","group_id":"also-nope"}`))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreate_GroupNotFound(t *testing.T) {
	h, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "Ada", "Lovelace", "ada@test.com")

	body := `{"user_id":"` + user.ID.Hex() + `","group_id":"` + primitive.NewObjectID().Hex() + `"}`
	req := httptest.NewRequest("POST", "/api/sessions", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestCreate_MissingGroupWithoutDefault(t *testing.T) {
	h, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "Ada", "Lovelace", "ada@test.com")

	body := `{"user_id":"` + user.ID.Hex() + `"}`
	req := httptest.NewRequest("POST", "/api/sessions", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreate_DefaultGroupFallback(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := sessions.NewHandler(db, "General", zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "Ada", "Lovelace", "ada@test.com")
	group := fixtures.CreateGroup(ctx, "General")

	body := `{"user_id":"` + user.ID.Hex() + `"}`
	req := httptest.NewRequest("POST", "/api/sessions", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var view models.SessionView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if view.GroupID != group.ID {
		t.Errorf("group_id: got %v, want default group %v", view.GroupID, group.ID)
	}
}

func TestList_ActiveFilter(t *testing.T) {
	h, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "Ada", "Lovelace", "ada@test.com")
	group := fixtures.CreateGroup(ctx, "Analysis Club")
	fixtures.CreateStudySession(ctx, "Live", group.ID, user.ID)
	fixtures.CreateEndedSession(ctx, "Done", group.ID, user.ID)

	req := httptest.NewRequest("GET", "/api/sessions?active=true", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}

	var views []models.SessionView
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(views) != 1 || views[0].Title != "Live" {
		t.Errorf("active filter returned wrong rows: %+v", views)
	}
}

func TestList_Empty(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/api/sessions", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty JSON array, got %s", body)
	}
}

func TestGet_NotFound(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/api/sessions/"+primitive.NewObjectID().Hex(), nil)
	req = testutil.WithChiURLParam(req, "sessionID", primitive.NewObjectID().Hex())
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestGet_InvalidID(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/api/sessions/nope", nil)
	req = testutil.WithChiURLParam(req, "sessionID", "nope")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestEnd(t *testing.T) {
	h, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "Ada", "Lovelace", "ada@test.com")
	group := fixtures.CreateGroup(ctx, "Analysis Club")
	sess := fixtures.CreateStudySession(ctx, "Ending", group.ID, user.ID)

	req := httptest.NewRequest("POST", "/api/sessions/"+sess.ID.Hex()+"/end", nil)
	req = testutil.WithChiURLParam(req, "sessionID", sess.ID.Hex())
	rec := httptest.NewRecorder()

	h.End(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	// Ending again conflicts.
	req = httptest.NewRequest("POST", "/api/sessions/"+sess.ID.Hex()+"/end", nil)
	req = testutil.WithChiURLParam(req, "sessionID", sess.ID.Hex())
	rec = httptest.NewRecorder()

	h.End(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("repeat end status: got %d, want %d", rec.Code, http.StatusConflict)
	}
}

package chat_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/colloquy/internal/app/features/chat"
	"github.com/dalemusser/colloquy/internal/domain/models"
	"github.com/dalemusser/colloquy/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type chatFixture struct {
	handler *chat.Handler
	user    models.User
	member  models.Membership
	session models.StudySession
}

func newChatFixture(t *testing.T) chatFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "Ada", "Lovelace", "ada@test.com")
	group := fixtures.CreateGroup(ctx, "Analysis Club")
	member := fixtures.CreateMembership(ctx, group.ID, user.ID, models.RoleMember)
	sess := fixtures.CreateStudySession(ctx, "Chat", group.ID, user.ID)

	return chatFixture{
		handler: chat.NewHandler(db, zap.NewNop()),
		user:    user,
		member:  member,
		session: sess,
	}
}

func (f chatFixture) sendRequest(body string) (*httptest.ResponseRecorder, *http.Request) {
	req := httptest.NewRequest("POST", "/api/sessions/"+f.session.ID.Hex()+"/messages", strings.NewReader(body))
	req = testutil.WithChiURLParam(req, "sessionID", f.session.ID.Hex())
	return httptest.NewRecorder(), req
}

func TestSend(t *testing.T) {
	f := newChatFixture(t)

	rec, req := f.sendRequest(`{"user_id":"` + f.user.ID.Hex() + `","content":"hello there"}`)
	f.handler.Send(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var view models.MessageView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if view.Content != "hello there" {
		t.Errorf("content: got %q, want %q", view.Content, "hello there")
	}
	if view.SenderID != f.member.ID {
		t.Errorf("sender_id: got %v, want membership id %v", view.SenderID, f.member.ID)
	}
	if view.SenderName != "Ada Lovelace" {
		t.Errorf("sender name: got %q, want %q", view.SenderName, "Ada Lovelace")
	}
}

func TestSend_BlankContent(t *testing.T) {
	f := newChatFixture(t)

	rec, req := f.sendRequest(`{"user_id":"` + f.user.ID.Hex() + `","content":"   "}`)
	f.handler.Send(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSend_NonMember(t *testing.T) {
	f := newChatFixture(t)

	rec, req := f.sendRequest(`{"user_id":"` + primitive.NewObjectID().Hex() + `","content":"hi"}`)
	f.handler.Send(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSend_CallerIdentityFallback(t *testing.T) {
	f := newChatFixture(t)

	rec, req := f.sendRequest(`{"content":"from cookie"}`)
	req = testutil.WithCaller(req, f.user.ID, "Ada Lovelace")
	f.handler.Send(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
}

func TestList(t *testing.T) {
	f := newChatFixture(t)

	for _, content := range []string{"first", "second"} {
		rec, req := f.sendRequest(`{"user_id":"` + f.user.ID.Hex() + `","content":"` + content + `"}`)
		f.handler.Send(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("send %q failed with %d", content, rec.Code)
		}
	}

	req := httptest.NewRequest("GET", "/api/sessions/"+f.session.ID.Hex()+"/messages", nil)
	req = testutil.WithChiURLParam(req, "sessionID", f.session.ID.Hex())
	rec := httptest.NewRecorder()

	f.handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}

	var views []models.MessageView
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(views) != 2 || views[0].Content != "first" || views[1].Content != "second" {
		t.Errorf("unexpected listing: %+v", views)
	}
}

func TestList_SessionNotFound(t *testing.T) {
	f := newChatFixture(t)

	missing := primitive.NewObjectID().Hex()
	req := httptest.NewRequest("GET", "/api/sessions/"+missing+"/messages", nil)
	req = testutil.WithChiURLParam(req, "sessionID", missing)
	rec := httptest.NewRecorder()

	f.handler.List(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

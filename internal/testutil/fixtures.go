package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/colloquy/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given name and email.
func (f *Fixtures) CreateUser(ctx context.Context, firstName, lastName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateGroup creates a test group with the given name.
func (f *Fixtures) CreateGroup(ctx context.Context, name string) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	group := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("groups").InsertOne(ctx, group); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateMembership creates a membership record linking a user to a group.
func (f *Fixtures) CreateMembership(ctx context.Context, groupID, userID primitive.ObjectID, role string) models.Membership {
	f.t.Helper()

	membership := models.Membership{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("group_memberships").InsertOne(ctx, membership); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return membership
}

// CreateStudySession creates an active study session for the given
// creator and group.
func (f *Fixtures) CreateStudySession(ctx context.Context, title string, groupID, createdBy primitive.ObjectID) models.StudySession {
	f.t.Helper()

	sess := models.StudySession{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		CreatedBy: createdBy,
		Title:     title,
		Status:    models.SessionActive,
		StartedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("study_sessions").InsertOne(ctx, sess); err != nil {
		f.t.Fatalf("failed to create test study session: %v", err)
	}
	return sess
}

// CreateEndedSession creates a study session that has already ended.
func (f *Fixtures) CreateEndedSession(ctx context.Context, title string, groupID, createdBy primitive.ObjectID) models.StudySession {
	f.t.Helper()

	now := time.Now().UTC()
	ended := now.Add(-time.Minute)
	sess := models.StudySession{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		CreatedBy: createdBy,
		Title:     title,
		Status:    models.SessionEnded,
		StartedAt: now.Add(-time.Hour),
		EndedAt:   &ended,
	}

	if _, err := f.db.Collection("study_sessions").InsertOne(ctx, sess); err != nil {
		f.t.Fatalf("failed to create ended test session: %v", err)
	}
	return sess
}

// CreatePaper creates a test paper with the given title.
func (f *Fixtures) CreatePaper(ctx context.Context, title string) models.Paper {
	f.t.Helper()

	now := time.Now().UTC()
	paper := models.Paper{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("papers").InsertOne(ctx, paper); err != nil {
		f.t.Fatalf("failed to create test paper: %v", err)
	}
	return paper
}

// CreatePresence records presence for a user in a session.
func (f *Fixtures) CreatePresence(ctx context.Context, sessionID, userID primitive.ObjectID, status string) models.Presence {
	f.t.Helper()

	p := models.Presence{
		ID:        primitive.NewObjectID(),
		SessionID: sessionID,
		UserID:    userID,
		Status:    status,
		LastSeen:  time.Now().UTC(),
	}

	if _, err := f.db.Collection("session_presence").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test presence: %v", err)
	}
	return p
}

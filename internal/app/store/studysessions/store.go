// internal/app/store/studysessions/store.go
package studysessions

import (
	"context"
	"strings"
	"time"

	groupstore "github.com/dalemusser/colloquy/internal/app/store/groups"
	membershipstore "github.com/dalemusser/colloquy/internal/app/store/memberships"
	"github.com/dalemusser/colloquy/internal/app/store/queries/sessionparticipants"
	userstore "github.com/dalemusser/colloquy/internal/app/store/users"
	"github.com/dalemusser/colloquy/internal/app/system/apperr"
	"github.com/dalemusser/colloquy/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the session registry: it owns the study_sessions collection
// and the listing/aggregation queries over it. Users and groups are
// existence-checked through their read-only stores; membership writes
// go through the membership ledger.
type Store struct {
	db          *mongo.Database
	c           *mongo.Collection
	users       *userstore.Store
	groups      *groupstore.Store
	memberships *membershipstore.Store
}

func New(db *mongo.Database) *Store {
	return &Store{
		db:          db,
		c:           db.Collection("study_sessions"),
		users:       userstore.New(db),
		groups:      groupstore.New(db),
		memberships: membershipstore.New(db),
	}
}

// Create starts a new active session for userID in groupID.
//
// Both ids are validated before anything is written. A blank title is
// synthesized from the start time as Session_YYYYMMDD_HHMMSS (UTC), so
// untitled sessions still sort and read sensibly. After the insert the
// creator's membership in the group is ensured; joining a group you
// already belong to is a no-op, never an error, so Create is safe to
// retry.
func (s *Store) Create(ctx context.Context, title string, userID, groupID primitive.ObjectID) (models.SessionView, error) {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return models.SessionView{}, err
	}
	if !ok {
		return models.SessionView{}, apperr.NotFound{Resource: "user", ID: userID.Hex()}
	}
	ok, err = s.groups.Exists(ctx, groupID)
	if err != nil {
		return models.SessionView{}, err
	}
	if !ok {
		return models.SessionView{}, apperr.NotFound{Resource: "group", ID: groupID.Hex()}
	}

	now := time.Now().UTC()
	if strings.TrimSpace(title) == "" {
		title = "Session_" + now.Format("20060102_150405")
	}

	sess := models.StudySession{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		CreatedBy: userID,
		Title:     title,
		Status:    models.SessionActive,
		StartedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, sess); err != nil {
		return models.SessionView{}, err
	}

	if _, err := s.memberships.Ensure(ctx, groupID, userID, models.RoleMember); err != nil {
		return models.SessionView{}, err
	}

	return models.SessionView{StudySession: sess, Description: "", ParticipantCount: 0}, nil
}

// ListFilter narrows List results. Nil fields mean "no filter".
type ListFilter struct {
	CreatedBy *primitive.ObjectID
	Active    *bool
}

// List returns sessions in ascending id order, which is stable and
// roughly chronological. Each row carries the distinct participant
// count recorded against that session (presence rows, not the group
// roll) and the placeholder description.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.SessionView, error) {
	filter := bson.M{}
	if f.CreatedBy != nil {
		filter["created_by"] = *f.CreatedBy
	}
	if f.Active != nil {
		if *f.Active {
			filter["status"] = models.SessionActive
		} else {
			filter["status"] = bson.M{"$ne": models.SessionActive}
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sessions []models.StudySession
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(sessions))
	for i, sess := range sessions {
		ids[i] = sess.ID
	}
	counts, err := sessionparticipants.CountForSessions(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.SessionView, len(sessions))
	for i, sess := range sessions {
		views[i] = s.view(sess, counts[sess.ID])
	}
	return views, nil
}

// GetByID returns one session in the same row shape as a listing entry,
// or apperr.NotFound.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.SessionView, error) {
	var sess models.StudySession
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sess); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.SessionView{}, apperr.NotFound{Resource: "session", ID: id.Hex()}
		}
		return models.SessionView{}, err
	}

	counts, err := sessionparticipants.CountForSessions(ctx, s.db, []primitive.ObjectID{sess.ID})
	if err != nil {
		return models.SessionView{}, err
	}
	return s.view(sess, counts[sess.ID]), nil
}

// End marks a session ended and stamps ended_at. The update filter
// matches only active sessions, so a second End on the same session
// reports apperr.Conflict rather than moving ended_at; a session that
// does not exist at all reports apperr.NotFound.
func (s *Store) End(ctx context.Context, id primitive.ObjectID) (models.StudySession, error) {
	now := time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var sess models.StudySession
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.SessionActive},
		bson.M{"$set": bson.M{"status": models.SessionEnded, "ended_at": now}},
		opts,
	).Decode(&sess)
	if err == mongo.ErrNoDocuments {
		if exErr := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); exErr == mongo.ErrNoDocuments {
			return models.StudySession{}, apperr.NotFound{Resource: "session", ID: id.Hex()}
		} else if exErr != nil {
			return models.StudySession{}, exErr
		}
		return models.StudySession{}, apperr.Conflict{Resource: "session", Reason: "already ended"}
	}
	if err != nil {
		return models.StudySession{}, err
	}
	return sess, nil
}

// view fills the contract fields the storage layer does not carry: the
// description placeholder is always "", and an unset status reads as
// ended so callers never see a null status.
func (s *Store) view(sess models.StudySession, participants int64) models.SessionView {
	if sess.Status == "" {
		sess.Status = models.SessionEnded
	}
	return models.SessionView{
		StudySession:     sess,
		Description:      "",
		ParticipantCount: participants,
	}
}

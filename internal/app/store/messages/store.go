// internal/app/store/messages/store.go
package messages

import (
	"context"
	"strings"
	"time"

	membershipstore "github.com/dalemusser/colloquy/internal/app/store/memberships"
	presencestore "github.com/dalemusser/colloquy/internal/app/store/presence"
	userstore "github.com/dalemusser/colloquy/internal/app/store/users"
	"github.com/dalemusser/colloquy/internal/app/system/apperr"
	"github.com/dalemusser/colloquy/internal/app/system/htmlsanitize"
	"github.com/dalemusser/colloquy/internal/app/system/txn"
	"github.com/dalemusser/colloquy/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the append-only message log for study sessions. Sending a
// message also refreshes the sender's presence row, so the log and the
// participant roll move together.
type Store struct {
	db          *mongo.Database
	c           *mongo.Collection
	sessions    *mongo.Collection
	memberships *membershipstore.Store
	presence    *presencestore.Store
	users       *userstore.Store
}

func New(db *mongo.Database) *Store {
	return &Store{
		db:          db,
		c:           db.Collection("session_messages"),
		sessions:    db.Collection("study_sessions"),
		memberships: membershipstore.New(db),
		presence:    presencestore.New(db),
		users:       userstore.New(db),
	}
}

// Send appends a message from userID to sessionID and refreshes the
// sender's presence in the same transaction.
//
// The sender is resolved in two explicit steps: the session supplies
// the group id, then the (group, user) membership supplies the sender
// id recorded on the message. Keeping the steps separate keeps the
// failures distinct: a missing session and a user who is not a member
// of the session's group report different NotFound errors.
//
// Content is rejected as InvalidArgument when blank after trimming or
// after sanitization, before anything is written. sent_at is assigned
// here, never taken from the caller.
//
// Send is NOT idempotent. Retrying after a timeout can post the same
// message twice; callers that cannot tolerate duplicates must read the
// log back before retrying.
func (s *Store) Send(ctx context.Context, sessionID, userID primitive.ObjectID, content, messageType string, metadata bson.M) (models.MessageView, error) {
	if strings.TrimSpace(content) == "" {
		return models.MessageView{}, apperr.InvalidArgument{Field: "content", Reason: "must not be blank"}
	}

	var sess models.StudySession
	if err := s.sessions.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&sess); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.MessageView{}, apperr.NotFound{Resource: "session", ID: sessionID.Hex()}
		}
		return models.MessageView{}, err
	}

	member, err := s.memberships.GetByGroupAndUser(ctx, sess.GroupID, userID)
	if err != nil {
		return models.MessageView{}, err
	}

	content = htmlsanitize.Plain(content)
	if content == "" {
		return models.MessageView{}, apperr.InvalidArgument{Field: "content", Reason: "empty after sanitization"}
	}
	if messageType == "" {
		messageType = models.MessageTypeUser
	}

	msg := models.Message{
		ID:        primitive.NewObjectID(),
		SessionID: sessionID,
		SenderID:  member.ID,
		Content:   content,
		Type:      messageType,
		Metadata:  metadata,
		SentAt:    time.Now().UTC(),
	}

	err = txn.WithTransaction(ctx, s.db.Client(), func(ctx context.Context) error {
		if _, err := s.c.InsertOne(ctx, msg); err != nil {
			return err
		}
		return s.presence.Touch(ctx, sessionID, userID, models.PresenceOnline)
	})
	if err != nil {
		return models.MessageView{}, err
	}

	sender, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.MessageView{}, err
	}
	return models.MessageView{Message: msg, SenderName: sender.DisplayName()}, nil
}

// ListBySession returns the messages of a session oldest first, ordered
// by sent_at with _id as the tiebreaker so the order is total even for
// equal timestamps. limit <= 0 means no limit.
//
// Sender names come from joining sender_id through the membership to
// the user record. Messages whose membership or user has since vanished
// still list, with an empty sender name.
func (s *Store) ListBySession(ctx context.Context, sessionID primitive.ObjectID, limit int64) ([]models.MessageView, error) {
	if err := s.sessions.FindOne(ctx, bson.M{"_id": sessionID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound{Resource: "session", ID: sessionID.Hex()}
		}
		return nil, err
	}

	pipeline := []bson.M{
		{"$match": bson.M{"session_id": sessionID}},
		{"$sort": bson.D{{Key: "sent_at", Value: 1}, {Key: "_id", Value: 1}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.M{"$limit": limit})
	}
	pipeline = append(pipeline,
		bson.M{"$lookup": bson.M{
			"from":         "group_memberships",
			"localField":   "sender_id",
			"foreignField": "_id",
			"as":           "sender_membership",
		}},
		bson.M{"$lookup": bson.M{
			"from":         "users",
			"localField":   "sender_membership.user_id",
			"foreignField": "_id",
			"as":           "sender_user",
		}},
	)

	cur, err := s.c.Aggregate(ctx, pipeline, options.Aggregate())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		models.Message `bson:",inline"`
		SenderUser     []models.User `bson:"sender_user"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	views := make([]models.MessageView, len(rows))
	for i, row := range rows {
		v := models.MessageView{Message: row.Message}
		if len(row.SenderUser) > 0 {
			v.SenderName = row.SenderUser[0].DisplayName()
		}
		views[i] = v
	}
	return views, nil
}

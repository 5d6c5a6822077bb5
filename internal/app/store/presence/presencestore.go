// internal/app/store/presence/presencestore.go
package presencestore

import (
	"context"
	"time"

	"github.com/dalemusser/colloquy/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("session_presence")}
}

// Touch marks userID as seen in sessionID with the given status and
// last_seen = now.
//
// The write is one conditional upsert keyed on the unique
// (session_id, user_id) index. Two concurrent touches for the same
// pair leave a single document whose last_seen is the later of the
// two writes.
func (s *Store) Touch(ctx context.Context, sessionID, userID primitive.ObjectID, status string) error {
	if status == "" {
		status = models.PresenceOnline
	}

	filter := bson.M{"session_id": sessionID, "user_id": userID}
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"last_seen": time.Now().UTC(),
		},
		"$setOnInsert": bson.M{
			"session_id": sessionID,
			"user_id":    userID,
		},
	}

	_, err := s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetBySessionAndUser returns the presence row for (sessionID, userID).
// mongo.ErrNoDocuments passes through: absence of presence is a normal
// state, not an application error.
func (s *Store) GetBySessionAndUser(ctx context.Context, sessionID, userID primitive.ObjectID) (models.Presence, error) {
	var p models.Presence
	err := s.c.FindOne(ctx, bson.M{"session_id": sessionID, "user_id": userID}).Decode(&p)
	return p, err
}

// CountBySession returns the number of distinct participants with
// presence recorded against a session. One row per (session, user), so
// a plain count is the distinct-user count.
func (s *Store) CountBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"session_id": sessionID})
}

// MarkStaleOffline flips rows that are still online but have not been
// seen within olderThan to offline. Returns the number of rows flipped.
// Rows are never deleted; participant counts include offline users.
func (s *Store) MarkStaleOffline(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	res, err := s.c.UpdateMany(ctx,
		bson.M{"status": models.PresenceOnline, "last_seen": bson.M{"$lt": cutoff}},
		bson.M{"$set": bson.M{"status": models.PresenceOffline}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ListBySession returns all presence rows for a session.
func (s *Store) ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]models.Presence, error) {
	cur, err := s.c.Find(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.Presence
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

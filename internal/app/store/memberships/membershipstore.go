// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"time"

	"github.com/dalemusser/colloquy/internal/app/system/apperr"
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
	return &Store{c: db.Collection("group_memberships")}
}

// Ensure records that userID participates in groupID, creating the
// membership with the given role on first join. It is idempotent: when
// the pair already exists the call is a no-op, not an error, and the
// existing role is left untouched.
//
// The write is a single conditional upsert keyed on the unique
// (group_id, user_id) index. Two concurrent Ensure calls for the same
// pair can never create two documents, and there is no separate
// existence check that a concurrent writer could race past.
func (s *Store) Ensure(ctx context.Context, groupID, userID primitive.ObjectID, role string) (models.Membership, error) {
	if role == "" {
		role = models.RoleMember
	}

	filter := bson.M{"group_id": groupID, "user_id": userID}
	update := bson.M{"$setOnInsert": bson.M{
		"group_id":   groupID,
		"user_id":    userID,
		"role":       role,
		"created_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var m models.Membership
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&m); err != nil {
		return models.Membership{}, err
	}
	return m, nil
}

// GetByGroupAndUser returns the membership for (groupID, userID) or
// apperr.NotFound. This is step two of sender resolution: the group id
// comes from the session first, so "session missing" and "user not a
// member" stay distinct failures.
func (s *Store) GetByGroupAndUser(ctx context.Context, groupID, userID primitive.ObjectID) (models.Membership, error) {
	var m models.Membership
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "user_id": userID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return models.Membership{}, apperr.NotFound{Resource: "membership", ID: userID.Hex()}
	}
	if err != nil {
		return models.Membership{}, err
	}
	return m, nil
}

// GetByID returns a membership by its own id, or apperr.NotFound.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Membership, error) {
	var m models.Membership
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return models.Membership{}, apperr.NotFound{Resource: "membership", ID: id.Hex()}
	}
	if err != nil {
		return models.Membership{}, err
	}
	return m, nil
}

// CountByGroup returns the number of memberships in a group.
func (s *Store) CountByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
}

// ListByGroup returns all memberships for a group.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Membership, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var memberships []models.Membership
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

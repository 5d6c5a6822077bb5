// internal/app/store/groups/groupstore.go
package groupstore

// The groups collection is owned by the external identity service.
// Colloquy only existence-checks groups; it never writes them.

import (
	"context"

	"github.com/dalemusser/colloquy/internal/app/system/apperr"
	"github.com/dalemusser/colloquy/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

// GetByID returns the group or apperr.NotFound.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Group{}, apperr.NotFound{Resource: "group", ID: id.Hex()}
		}
		return models.Group{}, err
	}
	return g, nil
}

// GetByName returns the group with this exact name or apperr.NotFound.
// Used for the default-group fallback on session creation.
func (s *Store) GetByName(ctx context.Context, name string) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"name": name}).Decode(&g); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Group{}, apperr.NotFound{Resource: "group", ID: name}
		}
		return models.Group{}, err
	}
	return g, nil
}

// Exists reports whether a group document with this id exists.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership role values.
const (
	RoleMember = "member"
	RoleLeader = "leader"
)

// Membership is the authoritative join between users and groups.
// Exactly one document per (group_id, user_id); the unique index on that
// pair is what makes Ensure idempotent under concurrent joins.
//
// The membership _id, not the raw user id, is the sender identity
// recorded on messages, so a user keeps one stable attribution across
// every session of the same group.
type Membership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID   primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// internal/domain/models/presence.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Presence status values.
const (
	PresenceOnline  = "online"
	PresenceOffline = "offline"
)

// Presence is the last-known online signal for a user within a session.
// At most one document per (session_id, user_id), maintained by a single
// upsert keyed on the unique pair index, never a check-then-write.
// Rows are retained after a session ends.
type Presence struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID primitive.ObjectID `bson:"session_id" json:"session_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Status    string             `bson:"status" json:"status"`
	LastSeen  time.Time          `bson:"last_seen" json:"last_seen"`
}

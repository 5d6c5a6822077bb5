// internal/domain/models/sessionpaper.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionPaper links a paper to a session. Exactly one document per
// (session_id, paper_id) pair, enforced by a unique index.
type SessionPaper struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID primitive.ObjectID `bson:"session_id" json:"session_id"`
	PaperID   primitive.ObjectID `bson:"paper_id" json:"paper_id"`
	AddedAt   time.Time          `bson:"added_at" json:"added_at"`
}

// internal/domain/models/studysession.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Study session status values.
const (
	SessionActive = "active"
	SessionEnded  = "ended"
)

// StudySession is a bounded group discussion instance tied to one group.
type StudySession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID   primitive.ObjectID `bson:"group_id" json:"group_id"`
	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	Title     string             `bson:"title" json:"title"`
	Status    string             `bson:"status" json:"status"`
	StartedAt time.Time          `bson:"started_at" json:"started_at"`
	EndedAt   *time.Time         `bson:"ended_at,omitempty" json:"ended_at"`
}

// SessionView is the row shape returned by listing and lookup operations.
// Description is not persisted on study_sessions; it is always the empty
// string, kept for compatibility with callers that expect the field.
// ParticipantCount counts distinct users with presence recorded against
// the session, not the group's member roll.
type SessionView struct {
	StudySession     `bson:",inline"`
	Description      string `bson:"description" json:"description"`
	ParticipantCount int64  `bson:"participant_count" json:"participant_count"`
}

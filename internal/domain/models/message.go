// internal/domain/models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message type values. Anything other than MessageTypeUser is reserved
// for system-generated entries (joins, attachments, etc.).
const (
	MessageTypeUser   = "user"
	MessageTypeSystem = "system"
)

// Message is one append-only chat entry in a study session.
//
// SenderID references a Membership document, not a user. Resolving the
// sender goes session → group → membership in two explicit steps; the
// indirection keeps attribution stable per (group, user) across sessions.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID primitive.ObjectID `bson:"session_id" json:"session_id"`
	SenderID  primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	Content   string             `bson:"content" json:"content"`
	Type      string             `bson:"message_type" json:"message_type"`
	Metadata  bson.M             `bson:"metadata,omitempty" json:"metadata,omitempty"`
	SentAt    time.Time          `bson:"sent_at" json:"sent_at"`
}

// MessageView is a Message annotated with the resolved sender display
// name for API responses. SenderName is computed at read time and never
// stored.
type MessageView struct {
	Message    `bson:",inline"`
	SenderName string `bson:"-" json:"sender_name"`
}

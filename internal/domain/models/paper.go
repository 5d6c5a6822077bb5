// internal/domain/models/paper.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Paper is a reference-document record attachable to study sessions.
type Paper struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"-"` // lowercase, diacritics-stripped
	Abstract    string             `bson:"abstract,omitempty" json:"abstract,omitempty"`
	Authors     string             `bson:"authors,omitempty" json:"authors,omitempty"`
	DOI         string             `bson:"doi,omitempty" json:"doi,omitempty"`
	URL         string             `bson:"url,omitempty" json:"url,omitempty"`
	PDFPath     string             `bson:"pdf_path,omitempty" json:"pdf_path,omitempty"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	PublishDate *time.Time         `bson:"publish_date,omitempty" json:"publish_date,omitempty"`
	Journal     string             `bson:"journal,omitempty" json:"journal,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"` // touched on every mutation
}

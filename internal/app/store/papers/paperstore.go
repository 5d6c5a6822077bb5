// internal/app/store/papers/paperstore.go
package paperstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/colloquy/internal/app/system/apperr"
	"github.com/dalemusser/colloquy/internal/app/system/htmlsanitize"
	"github.com/dalemusser/colloquy/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store owns the papers catalog and the session_papers attachment
// ledger.
type Store struct {
	papers   *mongo.Collection
	links    *mongo.Collection
	sessions *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		papers:   db.Collection("papers"),
		links:    db.Collection("session_papers"),
		sessions: db.Collection("study_sessions"),
	}
}

// Create inserts a paper record. The title is required; title_ci is the
// case-folded form kept alongside it for lookup and sorting. The
// abstract is sanitized to plain text before it is stored.
func (s *Store) Create(ctx context.Context, p models.Paper) (models.Paper, error) {
	if strings.TrimSpace(p.Title) == "" {
		return models.Paper{}, apperr.InvalidArgument{Field: "title", Reason: "must not be blank"}
	}

	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.Title = strings.TrimSpace(p.Title)
	p.TitleCI = text.Fold(p.Title)
	p.Abstract = htmlsanitize.Plain(p.Abstract)
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.papers.InsertOne(ctx, p); err != nil {
		return models.Paper{}, err
	}
	return p, nil
}

// GetByID returns the paper or apperr.NotFound.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Paper, error) {
	var p models.Paper
	if err := s.papers.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Paper{}, apperr.NotFound{Resource: "paper", ID: id.Hex()}
		}
		return models.Paper{}, err
	}
	return p, nil
}

// Attach links paperID to sessionID. Both sides must exist. The link
// is unique per (session, paper): attaching the same paper twice
// reports apperr.AlreadyExists via the unique index, so two concurrent
// attaches can never create two links.
func (s *Store) Attach(ctx context.Context, sessionID, paperID primitive.ObjectID) (models.SessionPaper, error) {
	if err := s.sessions.FindOne(ctx, bson.M{"_id": sessionID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.SessionPaper{}, apperr.NotFound{Resource: "session", ID: sessionID.Hex()}
		}
		return models.SessionPaper{}, err
	}
	if err := s.papers.FindOne(ctx, bson.M{"_id": paperID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.SessionPaper{}, apperr.NotFound{Resource: "paper", ID: paperID.Hex()}
		}
		return models.SessionPaper{}, err
	}

	link := models.SessionPaper{
		ID:        primitive.NewObjectID(),
		SessionID: sessionID,
		PaperID:   paperID,
		AddedAt:   time.Now().UTC(),
	}
	if _, err := s.links.InsertOne(ctx, link); err != nil {
		if wafflemongo.IsDup(err) {
			return models.SessionPaper{}, apperr.AlreadyExists{Resource: "session paper", ID: paperID.Hex()}
		}
		return models.SessionPaper{}, err
	}
	return link, nil
}

// AttachedPaper is a paper joined with the time it was attached to a
// session.
type AttachedPaper struct {
	models.Paper `bson:",inline"`
	AddedAt      time.Time `bson:"added_at" json:"added_at"`
}

// ListBySession returns the papers attached to a session, most recently
// attached first. The session must exist; a session with no attachments
// returns an empty slice.
func (s *Store) ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]AttachedPaper, error) {
	if err := s.sessions.FindOne(ctx, bson.M{"_id": sessionID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound{Resource: "session", ID: sessionID.Hex()}
		}
		return nil, err
	}

	pipeline := []bson.M{
		{"$match": bson.M{"session_id": sessionID}},
		{"$sort": bson.D{{Key: "added_at", Value: -1}, {Key: "_id", Value: -1}}},
		{"$lookup": bson.M{
			"from":         "papers",
			"localField":   "paper_id",
			"foreignField": "_id",
			"as":           "paper",
		}},
		{"$unwind": "$paper"},
		{"$replaceRoot": bson.M{
			"newRoot": bson.M{"$mergeObjects": bson.A{"$paper", bson.M{"added_at": "$added_at"}}},
		}},
	}

	cur, err := s.links.Aggregate(ctx, pipeline, options.Aggregate())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []AttachedPaper
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

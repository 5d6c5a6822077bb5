// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail
fast.

The unique indexes here are load-bearing, not advisory: membership
Ensure and presence Touch are single upserts whose race-safety comes
from the (group_id, user_id) and (session_id, user_id) unique keys, and
duplicate paper attachment is detected via the (session_id, paper_id)
unique key rather than a pre-read.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureMemberships(ctx, db); err != nil {
		problems = append(problems, "group_memberships: "+err.Error())
	}
	if err := ensureStudySessions(ctx, db); err != nil {
		problems = append(problems, "study_sessions: "+err.Error())
	}
	if err := ensureMessages(ctx, db); err != nil {
		problems = append(problems, "session_messages: "+err.Error())
	}
	if err := ensurePresence(ctx, db); err != nil {
		problems = append(problems, "session_presence: "+err.Error())
	}
	if err := ensurePapers(ctx, db); err != nil {
		problems = append(problems, "papers: "+err.Error())
	}
	if err := ensureSessionPapers(ctx, db); err != nil {
		problems = append(problems, "session_papers: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func ensureMemberships(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("group_memberships")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Uniqueness: exactly one membership per (group, user). Ensure
		// upserts key on this pair.
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_gm_group_user"),
		},
		// List a user's groups
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "group_id", Value: 1}},
			Options: options.Index().SetName("idx_gm_user_group"),
		},
	})
}

func ensureStudySessions(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("study_sessions")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Listing filters: creator and status (listing order is _id asc,
		// which the default _id index already serves)
		{
			Keys:    bson.D{{Key: "created_by", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_sessions_creator__id"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_sessions_status__id"),
		},
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}},
			Options: options.Index().SetName("idx_sessions_group"),
		},
	})
}

func ensureMessages(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("session_messages")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Per-session history in send order; _id breaks sent_at ties
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}, {Key: "sent_at", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_messages_session_sent__id"),
		},
		{
			Keys:    bson.D{{Key: "sender_id", Value: 1}},
			Options: options.Index().SetName("idx_messages_sender"),
		},
	})
}

func ensurePresence(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("session_presence")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Uniqueness: one presence row per (session, user). Touch upserts
		// key on this pair.
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_presence_session_user"),
		},
	})
}

func ensurePapers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("papers")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Title search + stable sort (case/diacritics folded via title_ci)
		{
			Keys:    bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_papers_titleci__id"),
		},
		{
			Keys:    bson.D{{Key: "doi", Value: 1}},
			Options: options.Index().SetName("idx_papers_doi"),
		},
	})
}

func ensureSessionPapers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("session_papers")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Uniqueness: a paper attaches to a session at most once
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}, {Key: "paper_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_sp_session_paper"),
		},
		// Newest-first listing per session
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}, {Key: "added_at", Value: -1}},
			Options: options.Index().SetName("idx_sp_session_added"),
		},
	})
}

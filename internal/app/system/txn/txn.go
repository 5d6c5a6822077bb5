// internal/app/system/txn/txn.go

// Package txn wraps multi-document writes in a MongoDB transaction so a
// caller aborting mid-operation leaves no partial state. Standalone
// servers (local dev, some hosted tiers) reject transactions; those
// errors are detected with IsNotSupported and the writes run
// sequentially instead. Individual upserts remain atomic either way.
package txn

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a causally-consistent session
// transaction on client. When the server does not support transactions,
// fn runs once outside a transaction as a best-effort fallback.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	// Re-running fn is safe only because a not-supported error means the
	// transaction never started, so none of fn's writes were applied. Do
	// not extend this retry to other error classes.
	if err != nil && IsNotSupported(err) {
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions (standalone deployment, old wire version,
// or session support disabled).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	if ce, ok := err.(mongo.CommandError); ok {
		switch ce.Code {
		case 20, 51, 263: // IllegalOperation variants seen from standalones
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") && strings.Contains(msg, "replica set") {
		return true
	}
	if strings.Contains(msg, "session") && strings.Contains(msg, "not supported") {
		return true
	}
	if strings.Contains(msg, "transaction") && strings.Contains(msg, "session") {
		return true
	}
	return strings.Contains(msg, "illegal operation")
}

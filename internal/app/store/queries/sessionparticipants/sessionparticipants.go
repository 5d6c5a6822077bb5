package sessionparticipants

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CountForSessions returns a map of session IDs to the number of
// distinct participants with presence recorded against them. Presence
// holds one row per (session, user), so counting rows per session
// counts distinct users. Sessions with no presence are absent from the
// map; callers treat that as zero.
func CountForSessions(ctx context.Context, db *mongo.Database, sessionIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	result := make(map[primitive.ObjectID]int64)
	if len(sessionIDs) == 0 {
		return result, nil
	}

	cur, err := db.Collection("session_presence").Aggregate(ctx, []bson.M{
		{"$match": bson.M{"session_id": bson.M{"$in": sessionIDs}}},
		{"$group": bson.M{"_id": "$session_id", "n": bson.M{"$sum": 1}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
			N  int64              `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		result[row.ID] = row.N
	}

	return result, cur.Err()
}

package data

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// FollowsStore performs follow-relationship DB operations against the
// follows collection.
type FollowsStore struct {
	coll *mongo.Collection
}

// NewFollowsStore returns a FollowsStore using the provided collection.
func NewFollowsStore(coll *mongo.Collection) *FollowsStore {
	return &FollowsStore{coll: coll}
}

// Follow creates a follow relationship. The unique index on
// (follower_id, followee_id) makes a repeat follow fail with a
// duplicate-key error, surfaced as ErrAlreadyFollowing so callers can tell
// it apart from a transient store failure. Self-follow is not prevented.
func (f *FollowsStore) Follow(ctx context.Context, followerID, followeeID string) (*Follow, error) {
	follower, err := ParseID(followerID)
	if err != nil {
		return nil, err
	}
	followee, err := ParseID(followeeID)
	if err != nil {
		return nil, err
	}

	follow := &Follow{
		FollowerID: follower,
		FolloweeID: followee,
		CreatedAt:  time.Now().UTC(),
	}

	result, err := f.coll.InsertOne(ctx, follow)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAlreadyFollowing
		}
		return nil, err
	}
	follow.ID = result.InsertedID.(bson.ObjectID)
	return follow, nil
}

// Unfollow removes a follow relationship by exact pair match. Returns false
// when the pair did not exist.
func (f *FollowsStore) Unfollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	follower, err := ParseID(followerID)
	if err != nil {
		return false, err
	}
	followee, err := ParseID(followeeID)
	if err != nil {
		return false, err
	}

	result, err := f.coll.DeleteOne(ctx, bson.M{
		"follower_id": follower,
		"followee_id": followee,
	})
	if err != nil {
		return false, err
	}
	return result.DeletedCount == 1, nil
}

// ListFollowing returns the follows where the user is the follower,
// newest-first.
func (f *FollowsStore) ListFollowing(ctx context.Context, userID string, limit, skip int64) ([]*Follow, error) {
	return f.list(ctx, "follower_id", userID, limit, skip)
}

// ListFollowers returns the follows where the user is the followee,
// newest-first.
func (f *FollowsStore) ListFollowers(ctx context.Context, userID string, limit, skip int64) ([]*Follow, error) {
	return f.list(ctx, "followee_id", userID, limit, skip)
}

func (f *FollowsStore) list(ctx context.Context, field, userID string, limit, skip int64) ([]*Follow, error) {
	oid, err := ParseID(userID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := f.coll.Find(ctx, bson.M{field: oid}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	follows := []*Follow{}
	if err = cursor.All(ctx, &follows); err != nil {
		return nil, err
	}
	return follows, nil
}

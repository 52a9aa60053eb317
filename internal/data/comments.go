package data

import (
	"context"
	"time"

	"studentconnect/internal/normalize"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CommentsStore performs comment DB operations against the comments
// collection.
type CommentsStore struct {
	coll *mongo.Collection
}

// NewCommentsStore returns a CommentsStore using the provided collection.
func NewCommentsStore(coll *mongo.Collection) *CommentsStore {
	return &CommentsStore{coll: coll}
}

// Add inserts a comment for a thread. The thread id is parsed but not
// checked for existence — a comment can outlive (or predate) its thread.
func (c *CommentsStore) Add(ctx context.Context, threadID, authorID, authorDisplayName, body string) (*Comment, error) {
	tid, err := ParseID(threadID)
	if err != nil {
		return nil, err
	}
	aid, err := ParseID(authorID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	comment := &Comment{
		ThreadID:          tid,
		AuthorID:          aid,
		AuthorDisplayName: authorDisplayName,
		Body:              normalize.Text(body),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	result, err := c.coll.InsertOne(ctx, comment)
	if err != nil {
		return nil, err
	}
	comment.ID = result.InsertedID.(bson.ObjectID)
	return comment, nil
}

// List returns a thread's comments oldest-first — a conversation reads
// chronologically, unlike the thread listing which is newest-first.
func (c *CommentsStore) List(ctx context.Context, threadID string, limit, skip int64) ([]*Comment, error) {
	tid, err := ParseID(threadID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.M{"created_at": 1}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := c.coll.Find(ctx, bson.M{"thread_id": tid}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []*Comment{}
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// Delete removes a comment via the compound id+author filter — only the
// author's delete matches. Returns false when nothing matched.
func (c *CommentsStore) Delete(ctx context.Context, id, authorID string) (bool, error) {
	oid, err := ParseID(id)
	if err != nil {
		return false, err
	}
	author, err := ParseID(authorID)
	if err != nil {
		return false, err
	}

	result, err := c.coll.DeleteOne(ctx, bson.M{"_id": oid, "author_id": author})
	if err != nil {
		return false, err
	}
	return result.DeletedCount == 1, nil
}

package data

import (
	"context"
	"time"

	"studentconnect/internal/normalize"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// threadFields is the whitelist for thread patches. Anything else in an
// incoming patch is dropped.
var threadFields = map[string]bool{
	"title":     true,
	"body":      true,
	"tags":      true,
	"photo_ids": true,
}

// ThreadsStore performs thread DB operations against the threads collection.
type ThreadsStore struct {
	coll *mongo.Collection
}

// NewThreadsStore returns a ThreadsStore using the provided collection.
func NewThreadsStore(coll *mongo.Collection) *ThreadsStore {
	return &ThreadsStore{coll: coll}
}

// Create inserts a thread document. Title and body are trimmed; the HTTP
// layer is responsible for rejecting empty values. Tags and photo ids
// default to empty slices.
func (t *ThreadsStore) Create(ctx context.Context, authorID, authorDisplayName, title, body string, tags, photoIDs []string) (*Thread, error) {
	oid, err := ParseID(authorID)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	if photoIDs == nil {
		photoIDs = []string{}
	}

	now := time.Now().UTC()
	thread := &Thread{
		AuthorID:          oid,
		AuthorDisplayName: authorDisplayName,
		Title:             normalize.Text(title),
		Body:              normalize.Text(body),
		Tags:              tags,
		PhotoIDs:          photoIDs,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	result, err := t.coll.InsertOne(ctx, thread)
	if err != nil {
		return nil, err
	}
	thread.ID = result.InsertedID.(bson.ObjectID)
	return thread, nil
}

// List returns threads newest-first with skip/limit pagination.
func (t *ThreadsStore) List(ctx context.Context, limit, skip int64) ([]*Thread, error) {
	return t.find(ctx, bson.M{}, limit, skip)
}

// Get finds one thread by id. Returns ErrInvalidID on malformed input and
// (nil, nil) when no thread matches.
func (t *ThreadsStore) Get(ctx context.Context, id string) (*Thread, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	var thread Thread
	err = t.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&thread)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &thread, nil
}

// Update applies a whitelisted patch to a thread. The filter matches on
// BOTH _id and author_id: when the caller is not the author zero documents
// match and the call returns false. This single compound filter is the
// ownership check — "not found" and "not the author" are indistinguishable
// here on purpose.
func (t *ThreadsStore) Update(ctx context.Context, id, authorID string, patch map[string]any) (bool, error) {
	oid, err := ParseID(id)
	if err != nil {
		return false, err
	}
	author, err := ParseID(authorID)
	if err != nil {
		return false, err
	}

	set := bson.M{}
	for key, value := range patch {
		if !threadFields[key] {
			continue
		}
		switch key {
		case "title", "body":
			if s, ok := value.(string); ok {
				set[key] = normalize.Text(s)
			}
		case "tags", "photo_ids":
			if items, ok := toStringSlice(value); ok {
				set[key] = items
			}
		}
	}
	set["updated_at"] = time.Now().UTC()

	result, err := t.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "author_id": author},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// Delete removes a thread using the same compound id+author filter as
// Update. Returns false when nothing matched (missing or not the author).
func (t *ThreadsStore) Delete(ctx context.Context, id, authorID string) (bool, error) {
	oid, err := ParseID(id)
	if err != nil {
		return false, err
	}
	author, err := ParseID(authorID)
	if err != nil {
		return false, err
	}

	result, err := t.coll.DeleteOne(ctx, bson.M{"_id": oid, "author_id": author})
	if err != nil {
		return false, err
	}
	return result.DeletedCount == 1, nil
}

// Search filters threads by exact tag match and/or full-text query over
// title+body (backed by the text index), newest-first. Both filters may be
// combined; with neither set it behaves like List.
func (t *ThreadsStore) Search(ctx context.Context, query, tag string, limit, skip int64) ([]*Thread, error) {
	filter := bson.M{}
	if tag != "" {
		filter["tags"] = tag
	}
	if query != "" {
		filter["$text"] = bson.M{"$search": query}
	}
	return t.find(ctx, filter, limit, skip)
}

// find runs a filtered query sorted by created_at descending.
func (t *ThreadsStore) find(ctx context.Context, filter bson.M, limit, skip int64) ([]*Thread, error) {
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := t.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	threads := []*Thread{}
	if err = cursor.All(ctx, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

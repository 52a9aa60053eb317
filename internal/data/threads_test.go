package data

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestThreadsCreateAndList(t *testing.T) {
	c := setupDB(t)
	defer func() { _ = c.Close(context.Background()) }()

	threads := NewThreadsStore(c.ThreadsCollection())
	ctx := context.Background()
	author := bson.NewObjectID().Hex()

	first, err := threads.Create(ctx, author, "Ada", "  First thread  ", " body one ", nil, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.Title != "First thread" || first.Body != "body one" {
		t.Fatalf("title/body not trimmed: %+v", first)
	}
	if first.Tags == nil || first.PhotoIDs == nil {
		t.Fatal("tags/photo_ids must default to empty slices, not nil")
	}

	// created_at has millisecond precision; space the inserts out
	time.Sleep(5 * time.Millisecond)

	second, err := threads.Create(ctx, author, "Ada", "Second thread", "body two", []string{"study"}, nil)
	if err != nil {
		t.Fatalf("Create (second) failed: %v", err)
	}

	// newest first
	items, err := threads.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 threads, got %d", len(items))
	}
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Fatal("List not sorted by created_at descending")
	}

	// skip walks the same ordering
	items, err = threads.List(ctx, 10, 1)
	if err != nil {
		t.Fatalf("List with skip failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != first.ID {
		t.Fatal("skip did not advance past the newest thread")
	}
}

func TestThreadsOwnership(t *testing.T) {
	c := setupDB(t)
	defer func() { _ = c.Close(context.Background()) }()

	threads := NewThreadsStore(c.ThreadsCollection())
	ctx := context.Background()
	author := bson.NewObjectID().Hex()
	stranger := bson.NewObjectID().Hex()

	thread, err := threads.Create(ctx, author, "Ada", "Mine", "hands off", nil, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	id := thread.ID.Hex()

	// a stranger's update matches zero documents
	ok, err := threads.Update(ctx, id, stranger, map[string]any{"title": "Hijacked"})
	if err != nil {
		t.Fatalf("Update (stranger) errored: %v", err)
	}
	if ok {
		t.Fatal("stranger was able to update the thread")
	}
	got, _ := threads.Get(ctx, id)
	if got.Title != "Mine" {
		t.Fatalf("record changed by failed update: %q", got.Title)
	}

	// the author's update goes through, whitelisted and trimmed
	ok, err = threads.Update(ctx, id, author, map[string]any{
		"title":     " Updated title ",
		"author_id": stranger, // not whitelisted — must be ignored
	})
	if err != nil || !ok {
		t.Fatalf("Update (author) failed: ok=%v err=%v", ok, err)
	}
	got, _ = threads.Get(ctx, id)
	if got.Title != "Updated title" {
		t.Fatalf("update not applied: %q", got.Title)
	}
	if got.AuthorID.Hex() != author {
		t.Fatal("patch overwrote author_id")
	}

	// stranger delete is a no-op; author delete works exactly once
	if ok, _ := threads.Delete(ctx, id, stranger); ok {
		t.Fatal("stranger was able to delete the thread")
	}
	if ok, err := threads.Delete(ctx, id, author); err != nil || !ok {
		t.Fatalf("author delete failed: ok=%v err=%v", ok, err)
	}
	if ok, err := threads.Delete(ctx, id, author); err != nil || ok {
		t.Fatalf("second delete should return false: ok=%v err=%v", ok, err)
	}
}

func TestThreadsSearch(t *testing.T) {
	c := setupDB(t)
	defer func() { _ = c.Close(context.Background()) }()

	threads := NewThreadsStore(c.ThreadsCollection())
	ctx := context.Background()
	author := bson.NewObjectID().Hex()

	thread, err := threads.Create(ctx, author, "Ada",
		"Looking for study buddy", "CSCI-UA 310 midterm prep",
		[]string{"CSCI-UA 310", "study"}, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := threads.Create(ctx, author, "Ada", "Lost keycard", "anyone seen it", []string{"lost-and-found"}, nil); err != nil {
		t.Fatalf("Create (second) failed: %v", err)
	}

	// exact tag match
	items, err := threads.Search(ctx, "", "study", 10, 0)
	if err != nil {
		t.Fatalf("Search by tag failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != thread.ID {
		t.Fatalf("tag search returned %d items", len(items))
	}

	// text search misses until the title actually contains the word
	items, err = threads.Search(ctx, "Updated", "", 10, 0)
	if err != nil {
		t.Fatalf("Search by query failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("query matched before update: %d items", len(items))
	}

	if ok, err := threads.Update(ctx, thread.ID.Hex(), author, map[string]any{"title": "Updated study plans"}); err != nil || !ok {
		t.Fatalf("Update failed: ok=%v err=%v", ok, err)
	}

	items, err = threads.Search(ctx, "Updated", "", 10, 0)
	if err != nil {
		t.Fatalf("Search by query failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != thread.ID {
		t.Fatalf("query search after update returned %d items", len(items))
	}

	// tag and query combine
	items, err = threads.Search(ctx, "Updated", "study", 10, 0)
	if err != nil {
		t.Fatalf("combined Search failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("combined search returned %d items", len(items))
	}
}

package data

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestFollowsUniquePair(t *testing.T) {
	c := setupDB(t)
	defer func() { _ = c.Close(context.Background()) }()

	follows := NewFollowsStore(c.FollowsCollection())
	ctx := context.Background()
	alice := bson.NewObjectID().Hex()
	bob := bson.NewObjectID().Hex()

	follow, err := follows.Follow(ctx, alice, bob)
	if err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if follow.FollowerID.Hex() != alice || follow.FolloweeID.Hex() != bob {
		t.Fatalf("wrong pair stored: %+v", follow)
	}

	// repeating the same pair is the tagged benign failure
	_, err = follows.Follow(ctx, alice, bob)
	if !errors.Is(err, ErrAlreadyFollowing) {
		t.Fatalf("expected ErrAlreadyFollowing, got %v", err)
	}

	// exactly one record exists
	count, err := c.FollowsCollection().CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 follow record, found %d", count)
	}

	// the reverse direction is a different pair
	if _, err := follows.Follow(ctx, bob, alice); err != nil {
		t.Fatalf("reverse Follow failed: %v", err)
	}
}

func TestFollowsUnfollow(t *testing.T) {
	c := setupDB(t)
	defer func() { _ = c.Close(context.Background()) }()

	follows := NewFollowsStore(c.FollowsCollection())
	ctx := context.Background()
	alice := bson.NewObjectID().Hex()
	bob := bson.NewObjectID().Hex()

	if _, err := follows.Follow(ctx, alice, bob); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}

	if ok, err := follows.Unfollow(ctx, alice, bob); err != nil || !ok {
		t.Fatalf("Unfollow failed: ok=%v err=%v", ok, err)
	}
	// second unfollow finds nothing
	if ok, err := follows.Unfollow(ctx, alice, bob); err != nil || ok {
		t.Fatalf("second Unfollow should return false: ok=%v err=%v", ok, err)
	}
}

func TestFollowsListing(t *testing.T) {
	c := setupDB(t)
	defer func() { _ = c.Close(context.Background()) }()

	follows := NewFollowsStore(c.FollowsCollection())
	ctx := context.Background()
	alice := bson.NewObjectID().Hex()
	bob := bson.NewObjectID().Hex()
	carol := bson.NewObjectID().Hex()

	if _, err := follows.Follow(ctx, alice, bob); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := follows.Follow(ctx, alice, carol); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if _, err := follows.Follow(ctx, carol, bob); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}

	following, err := follows.ListFollowing(ctx, alice, 50, 0)
	if err != nil {
		t.Fatalf("ListFollowing failed: %v", err)
	}
	if len(following) != 2 {
		t.Fatalf("alice should follow 2 users, got %d", len(following))
	}
	// newest first
	if following[0].FolloweeID.Hex() != carol {
		t.Fatal("ListFollowing not sorted by created_at descending")
	}

	followers, err := follows.ListFollowers(ctx, bob, 50, 0)
	if err != nil {
		t.Fatalf("ListFollowers failed: %v", err)
	}
	if len(followers) != 2 {
		t.Fatalf("bob should have 2 followers, got %d", len(followers))
	}
}

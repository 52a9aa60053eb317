// Package db manages the MongoDB connection, collections and indexes.
package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Client wraps mongo.Client and exposes the app's collections. It is
// constructed once in main and injected into the stores — there is no
// process-global handle.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB, verifies the connection with a ping and returns
// a Client bound to the named database.
func New(ctx context.Context, mongoURI, dbName string) (*Client, error) {
	opts := options.Client().
		ApplyURI(mongoURI).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Client{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

// Name returns the database name (used by the health endpoint).
func (c *Client) Name() string {
	return c.db.Name()
}

// Ping verifies connectivity against the primary.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// UsersCollection returns the users collection.
func (c *Client) UsersCollection() *mongo.Collection {
	return c.db.Collection("users")
}

// ThreadsCollection returns the threads collection.
func (c *Client) ThreadsCollection() *mongo.Collection {
	return c.db.Collection("threads")
}

// CommentsCollection returns the comments collection.
func (c *Client) CommentsCollection() *mongo.Collection {
	return c.db.Collection("comments")
}

// FollowsCollection returns the follows collection.
func (c *Client) FollowsCollection() *mongo.Collection {
	return c.db.Collection("follows")
}

// Close disconnects from MongoDB.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// CreateIndexes creates every index the stores rely on. Safe to run on
// every startup; MongoDB treats existing identical indexes as a no-op.
func (c *Client) CreateIndexes(ctx context.Context) error {
	// users: unique email (registration conflict), plus lookup helpers
	// for display name and profile filtering
	userIndexes := []mongo.IndexModel{
		{
			Keys:    map[string]int{"email": 1},
			Options: options.Index().SetUnique(true),
		},
		{Keys: map[string]int{"display_name": 1}},
		{Keys: map[string]int{"profile.major": 1}},
		{Keys: map[string]int{"profile.grad_year": 1}},
	}
	if _, err := c.UsersCollection().Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}

	// threads: newest-first listing, exact tag filter, and the text index
	// that backs full-text search over title+body
	threadIndexes := []mongo.IndexModel{
		{Keys: map[string]int{"created_at": -1}},
		{Keys: map[string]int{"tags": 1}},
		{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "body", Value: "text"}}},
	}
	if _, err := c.ThreadsCollection().Indexes().CreateMany(ctx, threadIndexes); err != nil {
		return fmt.Errorf("failed to create threads indexes: %w", err)
	}

	// comments: per-thread chronological listing
	commentIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "thread_id", Value: 1}, {Key: "created_at", Value: 1}},
	}
	if _, err := c.CommentsCollection().Indexes().CreateOne(ctx, commentIndex); err != nil {
		return fmt.Errorf("failed to create comments index: %w", err)
	}

	// follows: both listing directions plus the unique pair constraint
	// that makes a duplicate follow a duplicate-key error
	followIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "follower_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "followee_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{
			Keys:    bson.D{{Key: "follower_id", Value: 1}, {Key: "followee_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := c.FollowsCollection().Indexes().CreateMany(ctx, followIndexes); err != nil {
		return fmt.Errorf("failed to create follows indexes: %w", err)
	}

	return nil
}

package data

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Profile holds the optional academic fields a user fills in after
// registration. All fields default to empty; updates go through the
// UpdateProfile whitelist.
type Profile struct {
	Major     string   `bson:"major" json:"major"`
	Interests []string `bson:"interests" json:"interests"`
	Courses   []string `bson:"courses" json:"courses"`
	GradYear  string   `bson:"grad_year" json:"grad_year"`
	School    []string `bson:"school,omitempty" json:"school,omitempty"`
}

// User maps to the users collection. Email is unique (enforced by index)
// and always stored normalized. PasswordHash is a bcrypt hash, never the
// plaintext password.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string        `bson:"email" json:"email"`
	DisplayName  string        `bson:"display_name" json:"display_name"`
	PasswordHash string        `bson:"password_hash" json:"-"`
	Profile      Profile       `bson:"profile" json:"profile"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at"`
}

// Thread maps to the threads collection. AuthorDisplayName is a denormalized
// copy taken at creation time; it is not kept in sync with the user record.
type Thread struct {
	ID                bson.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID          bson.ObjectID `bson:"author_id" json:"author_id"`
	AuthorDisplayName string        `bson:"author_display_name" json:"author_display_name"`
	Title             string        `bson:"title" json:"title"`
	Body              string        `bson:"body" json:"body"`
	Tags              []string      `bson:"tags" json:"tags"`
	PhotoIDs          []string      `bson:"photo_ids" json:"photo_ids"`
	CreatedAt         time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time     `bson:"updated_at" json:"updated_at"`
}

// Comment maps to the comments collection. ThreadID is not checked against
// the threads collection; deleting a thread leaves its comments behind.
type Comment struct {
	ID                bson.ObjectID `bson:"_id,omitempty" json:"id"`
	ThreadID          bson.ObjectID `bson:"thread_id" json:"thread_id"`
	AuthorID          bson.ObjectID `bson:"author_id" json:"author_id"`
	AuthorDisplayName string        `bson:"author_display_name" json:"author_display_name"`
	Body              string        `bson:"body" json:"body"`
	CreatedAt         time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time     `bson:"updated_at" json:"updated_at"`
}

// Follow maps to the follows collection. The (follower_id, followee_id)
// pair is unique (enforced by index).
type Follow struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	FollowerID bson.ObjectID `bson:"follower_id" json:"follower_id"`
	FolloweeID bson.ObjectID `bson:"followee_id" json:"followee_id"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`
}

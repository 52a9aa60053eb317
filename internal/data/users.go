// Package data provides DB models and stores for users, threads,
// comments and follows.
package data

import (
	"context"
	"time"

	"studentconnect/internal/auth"
	"studentconnect/internal/normalize"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// profileFields is the canonical whitelist for profile updates. Keys not in
// this set are silently dropped from incoming patches.
var profileFields = map[string]bool{
	"major":     true,
	"interests": true,
	"courses":   true,
	"grad_year": true,
	"school":    true,
}

// UsersStore performs user DB operations against the users collection.
type UsersStore struct {
	coll *mongo.Collection
}

// NewUsersStore returns a UsersStore using the provided collection.
func NewUsersStore(coll *mongo.Collection) *UsersStore {
	return &UsersStore{coll: coll}
}

// Create inserts a new user document with an already-hashed password.
// Email and display name are normalized before storage; the profile starts
// empty. Fails with ErrEmailTaken when the email is already registered.
func (u *UsersStore) Create(ctx context.Context, email, displayName, passwordHash string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		Email:        normalize.Email(email),
		DisplayName:  normalize.Text(displayName),
		PasswordHash: passwordHash,
		Profile: Profile{
			Interests: []string{},
			Courses:   []string{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := u.coll.InsertOne(ctx, user)
	if err != nil {
		// Unique index on email turns duplicate registration into a
		// duplicate-key error.
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	user.ID = result.InsertedID.(bson.ObjectID)
	return user, nil
}

// CreateWithPassword hashes the plaintext password and creates the user.
// When displayName is blank it defaults to the local part of the email.
func (u *UsersStore) CreateWithPassword(ctx context.Context, email, password, displayName string) (*User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	if normalize.Text(displayName) == "" {
		displayName = normalize.EmailLocalPart(email)
	}
	return u.Create(ctx, email, displayName, hash)
}

// Authenticate validates an email/password pair. It returns the user on
// success and (nil, nil) when the email is unknown or the password does not
// match — callers cannot tell which check failed.
func (u *UsersStore) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := u.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	// bcrypt comparison is constant-time against the stored hash.
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, nil
	}
	return user, nil
}

// GetByEmail finds a user by normalized email. Returns (nil, nil) when no
// user matches.
func (u *UsersStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := u.coll.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByID finds a user by id string. Returns ErrInvalidID on malformed
// input and (nil, nil) when no user matches.
func (u *UsersStore) GetByID(ctx context.Context, id string) (*User, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	var user User
	err = u.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a whitelisted patch to a user's profile. Recognized
// keys are major, interests, courses, grad_year and school; everything else
// is dropped. Each recognized key is written individually as profile.<key>,
// so fields missing from the patch are left untouched. Returns false when no
// user matches the id.
func (u *UsersStore) UpdateProfile(ctx context.Context, id string, patch map[string]any) (bool, error) {
	oid, err := ParseID(id)
	if err != nil {
		return false, err
	}

	set := bson.M{}
	for key, value := range patch {
		if !profileFields[key] {
			continue // unknown field — silently dropped
		}
		switch key {
		case "major", "grad_year":
			if s, ok := value.(string); ok {
				set["profile."+key] = normalize.Text(s)
			}
		case "interests", "courses", "school":
			if items, ok := toStringSlice(value); ok {
				set["profile."+key] = items
			}
		}
	}
	set["updated_at"] = time.Now().UTC()

	result, err := u.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}

// toStringSlice coerces JSON-decoded list values ([]any or []string) into
// a []string. Non-list and mixed-type values are rejected.
func toStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			items = append(items, s)
		}
		return items, true
	}
	return nil, false
}

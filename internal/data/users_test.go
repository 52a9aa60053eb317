package data

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"studentconnect/internal/db"
)

// setupDB connects to the MongoDB named by MONGODB_URI, drops the test
// collections and recreates indexes. Tests are skipped when no URI is set.
func setupDB(t *testing.T) *db.Client {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set; skipping integration test")
	}

	ctx := context.Background()
	c, err := db.New(ctx, uri, "student_connect_test")
	if err != nil {
		t.Fatalf("db.New failed: %v", err)
	}

	// ensure clean collections in case previous runs left data
	_ = c.UsersCollection().Drop(ctx)
	_ = c.ThreadsCollection().Drop(ctx)
	_ = c.CommentsCollection().Drop(ctx)
	_ = c.FollowsCollection().Drop(ctx)

	// unique email, unique follow pair and text search all need indexes
	if err := c.CreateIndexes(ctx); err != nil {
		t.Fatalf("CreateIndexes failed: %v", err)
	}

	return c
}

func uniqueEmail(prefix string) string {
	return prefix + "-" + time.Now().UTC().Format("20060102-150405.000000000") + "@example.com"
}

func TestUsersRegisterAndAuthenticate(t *testing.T) {
	c := setupDB(t)
	defer func() { _ = c.Close(context.Background()) }()

	users := NewUsersStore(c.UsersCollection())
	ctx := context.Background()
	email := uniqueEmail("auth")

	user, err := users.CreateWithPassword(ctx, "  "+email+" ", "secret", "")
	if err != nil {
		t.Fatalf("CreateWithPassword failed: %v", err)
	}
	if user.Email != email {
		t.Fatalf("expected normalized email %s got %s", email, user.Email)
	}
	// display name defaults to the email local part when blank
	if user.DisplayName == "" || user.DisplayName[0] != 'a' {
		t.Fatalf("expected local-part display name, got %q", user.DisplayName)
	}
	if user.PasswordHash == "secret" || user.PasswordHash == "" {
		t.Fatal("password must be stored hashed, never plaintext")
	}

	// correct credentials
	got, err := users.Authenticate(ctx, email, "secret")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got == nil || got.Email != email {
		t.Fatalf("Authenticate returned wrong user: %+v", got)
	}

	// wrong password and unknown email both come back nil, nil
	if got, err := users.Authenticate(ctx, email, "wrong"); err != nil || got != nil {
		t.Fatalf("wrong password: got=%+v err=%v, want nil, nil", got, err)
	}
	if got, err := users.Authenticate(ctx, uniqueEmail("missing"), "secret"); err != nil || got != nil {
		t.Fatalf("unknown email: got=%+v err=%v, want nil, nil", got, err)
	}
}

func TestUsersDuplicateEmail(t *testing.T) {
	c := setupDB(t)
	defer func() { _ = c.Close(context.Background()) }()

	users := NewUsersStore(c.UsersCollection())
	ctx := context.Background()
	email := uniqueEmail("dup")

	if _, err := users.CreateWithPassword(ctx, email, "secret", "First"); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	// same address with different casing still collides
	_, err := users.CreateWithPassword(ctx, "  "+email, "other", "Second")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUsersGetByID(t *testing.T) {
	c := setupDB(t)
	defer func() { _ = c.Close(context.Background()) }()

	users := NewUsersStore(c.UsersCollection())
	ctx := context.Background()

	user, err := users.CreateWithPassword(ctx, uniqueEmail("get"), "secret", "Getter")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := users.GetByID(ctx, user.ID.Hex())
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil || got.Email != user.Email {
		t.Fatalf("GetByID returned %+v", got)
	}

	if _, err := users.GetByID(ctx, "nonsense"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestUsersUpdateProfileWhitelist(t *testing.T) {
	c := setupDB(t)
	defer func() { _ = c.Close(context.Background()) }()

	users := NewUsersStore(c.UsersCollection())
	ctx := context.Background()

	user, err := users.CreateWithPassword(ctx, uniqueEmail("profile"), "secret", "Profiled")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	ok, err := users.UpdateProfile(ctx, user.ID.Hex(), map[string]any{
		"major":     "  Computer Science ",
		"grad_year": "2027",
		"interests": []string{"chess", "climbing"},
		"school":    []string{"Tandon"},
		"is_admin":  true,             // not whitelisted — must be dropped
		"email":     "evil@evil.com",  // ditto; profile updates never touch email
		"courses":   []any{"CSCI-UA 310"},
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if !ok {
		t.Fatal("UpdateProfile reported no match for existing user")
	}

	got, err := users.GetByID(ctx, user.ID.Hex())
	if err != nil || got == nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Profile.Major != "Computer Science" {
		t.Fatalf("major not trimmed/stored: %q", got.Profile.Major)
	}
	if got.Profile.GradYear != "2027" {
		t.Fatalf("grad_year not stored: %q", got.Profile.GradYear)
	}
	if len(got.Profile.Interests) != 2 || len(got.Profile.Courses) != 1 || len(got.Profile.School) != 1 {
		t.Fatalf("sequence fields wrong: %+v", got.Profile)
	}
	if got.Email != user.Email {
		t.Fatal("profile update must not modify email")
	}

	// merge semantics: a later patch touching one field leaves the rest
	ok, err = users.UpdateProfile(ctx, user.ID.Hex(), map[string]any{"major": "Math"})
	if err != nil || !ok {
		t.Fatalf("second UpdateProfile failed: ok=%v err=%v", ok, err)
	}
	got, _ = users.GetByID(ctx, user.ID.Hex())
	if got.Profile.Major != "Math" || got.Profile.GradYear != "2027" {
		t.Fatalf("merge semantics violated: %+v", got.Profile)
	}
	if !got.UpdatedAt.After(user.UpdatedAt) {
		t.Fatal("updated_at not stamped")
	}
}

func TestUsersUpdateProfileMissingUser(t *testing.T) {
	c := setupDB(t)
	defer func() { _ = c.Close(context.Background()) }()

	users := NewUsersStore(c.UsersCollection())

	// a well-formed id that matches nothing is false, not an error
	ok, err := users.UpdateProfile(context.Background(), "68b1c2d3e4f5a6b7c8d9e0f1", map[string]any{"major": "x"})
	if err != nil {
		t.Fatalf("UpdateProfile errored: %v", err)
	}
	if ok {
		t.Fatal("UpdateProfile matched a nonexistent user")
	}
}

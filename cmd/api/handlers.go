package main

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"studentconnect/internal/data"
	"studentconnect/internal/middleware"
	"studentconnect/internal/normalize"
)

// health is a lightweight DB connectivity probe.
func (a *api) health(c *fiber.Ctx) error {
	if err := a.db.Ping(c.Context()); err != nil {
		return fail(c, fiber.StatusInternalServerError, "database unreachable")
	}
	return c.JSON(fiber.Map{"ok": true, "db": a.db.Name()})
}

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"display_name"`
	// legacy field name still sent by the old signup form
	FullName string `json:"fullName"`
}

// register creates an account and logs the new user in by setting the
// session cookie.
func (a *api) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := a.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, "email and password are required")
	}

	displayName := normalize.Text(req.DisplayName)
	if displayName == "" {
		displayName = normalize.Text(req.FullName)
	}

	// Pre-check for a friendlier message; the unique index is what actually
	// enforces this.
	if existing, err := a.users.GetByEmail(c.Context(), req.Email); err != nil {
		return fail(c, fiber.StatusInternalServerError, "registration failed")
	} else if existing != nil {
		return fail(c, fiber.StatusConflict, "account already exists")
	}

	user, err := a.users.CreateWithPassword(c.Context(), req.Email, req.Password, displayName)
	if err != nil {
		if err == data.ErrEmailTaken {
			return fail(c, fiber.StatusConflict, "account already exists")
		}
		log.Printf("create user failed: %v", err)
		return fail(c, fiber.StatusInternalServerError, "registration failed")
	}

	if err := a.setSessionCookie(c, user); err != nil {
		return fail(c, fiber.StatusInternalServerError, "failed to start session")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "user": user})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// login authenticates and sets the session cookie. The error message never
// reveals whether the email or the password was wrong.
func (a *api) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := a.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, "email and password are required")
	}

	user, err := a.users.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("authenticate failed: %v", err)
		return fail(c, fiber.StatusInternalServerError, "login failed")
	}
	if user == nil {
		return fail(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	if err := a.setSessionCookie(c, user); err != nil {
		return fail(c, fiber.StatusInternalServerError, "failed to start session")
	}
	return c.JSON(fiber.Map{"ok": true, "user": user})
}

// logout clears the session cookie.
func (a *api) logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"ok": true})
}

// me returns the currently logged-in user.
func (a *api) me(c *fiber.Ctx) error {
	claims, _ := middleware.ClaimsFromCtx(c)
	user, err := a.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "lookup failed")
	}
	if user == nil {
		// account deleted after the session was issued
		return fail(c, fiber.StatusUnauthorized, "not logged in")
	}
	return c.JSON(fiber.Map{"ok": true, "user": user})
}

type profileSetupRequest struct {
	Major     string   `json:"major"`
	GradYear  string   `json:"grad_year"`
	ClassYear string   `json:"classYear"` // alias from the setup form
	School    string   `json:"school"`
	Courses   any      `json:"courses"` // array, or comma-separated string
	Interests []string `json:"interests"`
}

// profileSetup applies the whitelisted profile patch for the logged-in user.
func (a *api) profileSetup(c *fiber.Ctx) error {
	claims, _ := middleware.ClaimsFromCtx(c)

	var req profileSetupRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	major := normalize.Text(req.Major)
	gradYear := normalize.Text(req.GradYear)
	if gradYear == "" {
		gradYear = normalize.Text(req.ClassYear)
	}
	if major == "" || gradYear == "" {
		return fail(c, fiber.StatusBadRequest, "major and grad_year are required")
	}

	patch := map[string]any{
		"major":     major,
		"grad_year": gradYear,
	}
	if courses, ok := parseCourses(req.Courses); ok {
		patch["courses"] = courses
	}
	if school := normalize.Text(req.School); school != "" {
		patch["school"] = []string{school}
	}
	if req.Interests != nil {
		patch["interests"] = req.Interests
	}

	updated, err := a.users.UpdateProfile(c.Context(), claims.UserID, patch)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "profile update failed")
	}
	if !updated {
		return fail(c, fiber.StatusNotFound, "user not found")
	}

	user, err := a.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(fiber.Map{"ok": true, "user": user})
}

// parseCourses accepts a JSON array of strings or a single comma-separated
// string (the setup form submits the latter).
func parseCourses(value any) ([]string, bool) {
	switch v := value.(type) {
	case string:
		items := []string{}
		for _, item := range strings.Split(v, ",") {
			if item = normalize.Text(item); item != "" {
				items = append(items, item)
			}
		}
		return items, true
	case []any:
		items := []string{}
		for _, raw := range v {
			s, ok := raw.(string)
			if !ok {
				return nil, false
			}
			if s = normalize.Text(s); s != "" {
				items = append(items, s)
			}
		}
		return items, true
	}
	return nil, false
}

// setSessionCookie issues a session token for the user and writes it as an
// HTTP-only cookie.
func (a *api) setSessionCookie(c *fiber.Ctx, user *data.User) error {
	token, expiresAt, err := a.sessions.Issue(user.ID.Hex(), user.Email)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

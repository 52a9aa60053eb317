package main

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"studentconnect/internal/auth"
	"studentconnect/internal/data"
	"studentconnect/internal/db"
	"studentconnect/internal/middleware"
)

// api holds the stores and session manager every handler needs.
type api struct {
	users    *data.UsersStore
	threads  *data.ThreadsStore
	comments *data.CommentsStore
	follows  *data.FollowsStore
	sessions *auth.SessionManager
	db       *db.Client
	validate *validator.Validate
}

// registerRoutes wires every endpoint onto the app. rateLimit is applied to
// the credential endpoints only.
func (a *api) registerRoutes(app *fiber.App, rateLimit fiber.Handler) {
	app.Get("/api/health", a.health)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", rateLimit, a.register)
	authGroup.Post("/login", rateLimit, a.login)
	authGroup.Post("/logout", middleware.RequireSession, a.logout)
	authGroup.Get("/me", middleware.RequireSession, a.me)

	app.Post("/api/setup", middleware.RequireSession, a.profileSetup)

	threads := app.Group("/api/threads")
	threads.Get("/", a.listThreads)
	threads.Post("/", a.createThread)
	threads.Get("/:id", a.getThread)
	threads.Patch("/:id", a.updateThread)
	threads.Delete("/:id", a.deleteThread)
	threads.Get("/:id/comments", a.listComments)
	threads.Post("/:id/comments", a.addComment)

	app.Delete("/api/comments/:id", a.deleteComment)

	users := app.Group("/api/users")
	users.Post("/:id/follow", a.follow)
	users.Delete("/:id/follow", a.unfollow)
	users.Get("/:id/following", a.listFollowing)
	users.Get("/:id/followers", a.listFollowers)
}

// fail writes the uniform error envelope.
func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"ok": false, "error": msg})
}

// pagination reads limit/skip query params, clamping limit to [1, 100] and
// skip to >= 0.
func pagination(c *fiber.Ctx, defaultLimit int) (limit, skip int64) {
	l := c.QueryInt("limit", defaultLimit)
	if l < 1 {
		l = 1
	}
	if l > 100 {
		l = 100
	}
	s := c.QueryInt("skip", 0)
	if s < 0 {
		s = 0
	}
	return int64(l), int64(s)
}

// actorID resolves the acting user's id: the session identity wins, the
// explicit payload id is the non-session (test) path.
func actorID(c *fiber.Ctx, payloadID string) string {
	if claims, ok := middleware.ClaimsFromCtx(c); ok {
		return claims.UserID
	}
	return payloadID
}

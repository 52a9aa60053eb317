package main

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"studentconnect/internal/data"
	"studentconnect/internal/normalize"
)

// listComments returns a thread's comments oldest-first.
func (a *api) listComments(c *fiber.Ctx) error {
	limit, skip := pagination(c, 50)

	items, err := a.comments.List(c.Context(), c.Params("id"), limit, skip)
	if err != nil {
		if errors.Is(err, data.ErrInvalidID) {
			return fail(c, fiber.StatusBadRequest, "invalid thread id")
		}
		log.Printf("list comments failed: %v", err)
		return fail(c, fiber.StatusInternalServerError, "failed to list comments")
	}
	return c.JSON(fiber.Map{"items": items, "limit": limit, "skip": skip})
}

type addCommentRequest struct {
	AuthorID          string `json:"author_id"`
	AuthorDisplayName string `json:"author_display_name"`
	Body              string `json:"body" validate:"required"`
}

func (a *api) addComment(c *fiber.Ctx) error {
	var req addCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if normalize.Text(req.Body) == "" {
		return fail(c, fiber.StatusBadRequest, "body is required")
	}

	author := actorID(c, req.AuthorID)
	if author == "" {
		return fail(c, fiber.StatusUnauthorized, "not logged in")
	}

	displayName := normalize.Text(req.AuthorDisplayName)
	if displayName == "" {
		displayName = a.sessionDisplayName(c)
	}
	if displayName == "" {
		return fail(c, fiber.StatusBadRequest, "author_display_name is required")
	}

	comment, err := a.comments.Add(c.Context(), c.Params("id"), author, displayName, req.Body)
	if err != nil {
		if errors.Is(err, data.ErrInvalidID) {
			return fail(c, fiber.StatusBadRequest, "invalid thread or author id")
		}
		log.Printf("add comment failed: %v", err)
		return fail(c, fiber.StatusInternalServerError, "failed to add comment")
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (a *api) deleteComment(c *fiber.Ctx) error {
	var req authoredRequest
	_ = c.BodyParser(&req) // body is optional on the session path

	author := actorID(c, req.AuthorID)
	if author == "" {
		return fail(c, fiber.StatusUnauthorized, "not logged in")
	}

	ok, err := a.comments.Delete(c.Context(), c.Params("id"), author)
	if err != nil {
		if errors.Is(err, data.ErrInvalidID) {
			return fail(c, fiber.StatusBadRequest, "invalid comment or author id")
		}
		return fail(c, fiber.StatusInternalServerError, "delete failed")
	}
	if !ok {
		return fail(c, fiber.StatusNotFound, "comment not found (or you are not the author)")
	}
	return c.JSON(fiber.Map{"ok": true})
}

type followRequest struct {
	FollowerID string `json:"follower_id"`
}

// follow creates a follow from the acting user to :id. A repeat follow is
// benign and reported as already_following rather than an error.
func (a *api) follow(c *fiber.Ctx) error {
	var req followRequest
	_ = c.BodyParser(&req)

	follower := actorID(c, req.FollowerID)
	if follower == "" {
		return fail(c, fiber.StatusUnauthorized, "not logged in")
	}

	follow, err := a.follows.Follow(c.Context(), follower, c.Params("id"))
	if err != nil {
		if errors.Is(err, data.ErrAlreadyFollowing) {
			return c.JSON(fiber.Map{"ok": true, "already_following": true})
		}
		if errors.Is(err, data.ErrInvalidID) {
			return fail(c, fiber.StatusBadRequest, "invalid user id")
		}
		log.Printf("follow failed: %v", err)
		return fail(c, fiber.StatusInternalServerError, "failed to follow")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "follow": follow})
}

func (a *api) unfollow(c *fiber.Ctx) error {
	var req followRequest
	_ = c.BodyParser(&req)

	follower := actorID(c, req.FollowerID)
	if follower == "" {
		return fail(c, fiber.StatusUnauthorized, "not logged in")
	}

	removed, err := a.follows.Unfollow(c.Context(), follower, c.Params("id"))
	if err != nil {
		if errors.Is(err, data.ErrInvalidID) {
			return fail(c, fiber.StatusBadRequest, "invalid user id")
		}
		return fail(c, fiber.StatusInternalServerError, "failed to unfollow")
	}
	return c.JSON(fiber.Map{"ok": true, "removed": removed})
}

func (a *api) listFollowing(c *fiber.Ctx) error {
	return a.listFollows(c, a.follows.ListFollowing)
}

func (a *api) listFollowers(c *fiber.Ctx) error {
	return a.listFollows(c, a.follows.ListFollowers)
}

func (a *api) listFollows(c *fiber.Ctx, list func(ctx context.Context, userID string, limit, skip int64) ([]*data.Follow, error)) error {
	limit, skip := pagination(c, 50)

	items, err := list(c.Context(), c.Params("id"), limit, skip)
	if err != nil {
		if errors.Is(err, data.ErrInvalidID) {
			return fail(c, fiber.StatusBadRequest, "invalid user id")
		}
		log.Printf("list follows failed: %v", err)
		return fail(c, fiber.StatusInternalServerError, "failed to list follows")
	}
	return c.JSON(fiber.Map{"items": items, "limit": limit, "skip": skip})
}

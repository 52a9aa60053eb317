package main

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"studentconnect/internal/data"
	"studentconnect/internal/middleware"
	"studentconnect/internal/normalize"
)

// notAuthorMsg deliberately merges "missing" and "not yours" — the store's
// compound id+author filter cannot tell them apart.
const notAuthorMsg = "thread not found (or you are not the author)"

// listThreads lists threads newest-first; q/tag query params switch to
// search over the same pagination window.
func (a *api) listThreads(c *fiber.Ctx) error {
	limit, skip := pagination(c, 20)
	q := c.Query("q")
	tag := c.Query("tag")

	var (
		items []*data.Thread
		err   error
	)
	if q != "" || tag != "" {
		items, err = a.threads.Search(c.Context(), q, tag, limit, skip)
	} else {
		items, err = a.threads.List(c.Context(), limit, skip)
	}
	if err != nil {
		log.Printf("list threads failed: %v", err)
		return fail(c, fiber.StatusInternalServerError, "failed to list threads")
	}

	return c.JSON(fiber.Map{"items": items, "limit": limit, "skip": skip})
}

type createThreadRequest struct {
	AuthorID          string   `json:"author_id"`
	AuthorDisplayName string   `json:"author_display_name"`
	Title             string   `json:"title" validate:"required"`
	Body              string   `json:"body" validate:"required"`
	Tags              []string `json:"tags"`
	PhotoIDs          []string `json:"photo_ids"`
}

func (a *api) createThread(c *fiber.Ctx) error {
	var req createThreadRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if normalize.Text(req.Title) == "" || normalize.Text(req.Body) == "" {
		return fail(c, fiber.StatusBadRequest, "title and body are required")
	}

	author := actorID(c, req.AuthorID)
	if author == "" {
		return fail(c, fiber.StatusUnauthorized, "not logged in")
	}

	displayName := normalize.Text(req.AuthorDisplayName)
	if displayName == "" {
		// session path: fall back to the account's display name
		if user, err := a.users.GetByID(c.Context(), author); err == nil && user != nil {
			displayName = user.DisplayName
		}
	}
	if displayName == "" {
		return fail(c, fiber.StatusBadRequest, "author_display_name is required")
	}

	thread, err := a.threads.Create(c.Context(), author, displayName, req.Title, req.Body, req.Tags, req.PhotoIDs)
	if err != nil {
		if errors.Is(err, data.ErrInvalidID) {
			return fail(c, fiber.StatusBadRequest, "invalid author_id")
		}
		log.Printf("create thread failed: %v", err)
		return fail(c, fiber.StatusInternalServerError, "failed to create thread")
	}
	return c.Status(fiber.StatusCreated).JSON(thread)
}

func (a *api) getThread(c *fiber.Ctx) error {
	thread, err := a.threads.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, data.ErrInvalidID) {
			return fail(c, fiber.StatusBadRequest, "invalid thread id")
		}
		return fail(c, fiber.StatusInternalServerError, "lookup failed")
	}
	if thread == nil {
		return fail(c, fiber.StatusNotFound, "thread not found")
	}
	return c.JSON(thread)
}

func (a *api) updateThread(c *fiber.Ctx) error {
	patch := map[string]any{}
	if err := c.BodyParser(&patch); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	payloadAuthor, _ := patch["author_id"].(string)
	author := actorID(c, payloadAuthor)
	if author == "" {
		return fail(c, fiber.StatusUnauthorized, "not logged in")
	}
	delete(patch, "author_id")

	ok, err := a.threads.Update(c.Context(), c.Params("id"), author, patch)
	if err != nil {
		if errors.Is(err, data.ErrInvalidID) {
			return fail(c, fiber.StatusBadRequest, "invalid thread or author id")
		}
		return fail(c, fiber.StatusInternalServerError, "update failed")
	}
	if !ok {
		return fail(c, fiber.StatusNotFound, notAuthorMsg)
	}

	thread, err := a.threads.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(thread)
}

type authoredRequest struct {
	AuthorID string `json:"author_id"`
}

func (a *api) deleteThread(c *fiber.Ctx) error {
	var req authoredRequest
	_ = c.BodyParser(&req) // body is optional on the session path

	author := actorID(c, req.AuthorID)
	if author == "" {
		return fail(c, fiber.StatusUnauthorized, "not logged in")
	}

	ok, err := a.threads.Delete(c.Context(), c.Params("id"), author)
	if err != nil {
		if errors.Is(err, data.ErrInvalidID) {
			return fail(c, fiber.StatusBadRequest, "invalid thread or author id")
		}
		return fail(c, fiber.StatusInternalServerError, "delete failed")
	}
	if !ok {
		return fail(c, fiber.StatusNotFound, notAuthorMsg)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// sessionDisplayName returns the display name for the acting user when
// reachable, empty otherwise.
func (a *api) sessionDisplayName(c *fiber.Ctx) string {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return ""
	}
	user, err := a.users.GetByID(c.Context(), claims.UserID)
	if err != nil || user == nil {
		return ""
	}
	return user.DisplayName
}

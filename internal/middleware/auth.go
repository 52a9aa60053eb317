// Package middleware provides the Fiber middleware used by the API:
// session-cookie authentication and per-key rate limiting.
package middleware

import (
	"github.com/gofiber/fiber/v2"

	"studentconnect/internal/auth"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "session"

// claimsKey is the Locals key under which verified claims are stored.
const claimsKey = "session_claims"

// Session returns middleware that verifies the session cookie when present
// and attaches the claims to the request context. It never rejects — routes
// that require a login wrap their handler in RequireSession.
func Session(sessions *auth.SessionManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token != "" {
			if claims, err := sessions.Verify(token); err == nil {
				c.Locals(claimsKey, claims)
			}
			// an invalid or expired cookie is treated as no session
		}
		return c.Next()
	}
}

// RequireSession rejects the request with 401 unless Session verified a
// cookie earlier in the chain.
func RequireSession(c *fiber.Ctx) error {
	if _, ok := ClaimsFromCtx(c); !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"ok":    false,
			"error": "not logged in",
		})
	}
	return c.Next()
}

// ClaimsFromCtx extracts verified session claims from the request, if any.
func ClaimsFromCtx(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*auth.Claims)
	return claims, ok
}

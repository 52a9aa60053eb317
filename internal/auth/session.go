// Package auth provides password hashing and the signed session tokens
// carried in the session cookie.
package auth

import (
	"errors"
	"fmt"
	"time"

	"studentconnect/internal/normalize"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// SessionManager signs and validates the tokens stored in session cookies.
// It supports multiple named keys so secrets can be rotated without
// invalidating sessions issued under the previous key.
type SessionManager struct {
	keys      map[string]string // kid -> secret
	activeKid string            // kid used for newly issued sessions
	duration  time.Duration     // session validity
}

// Claims is the session payload (user id + email).
type Claims struct {
	UserID               string `json:"user_id"` // ObjectID hex string
	Email                string `json:"email"`
	jwt.RegisteredClaims        // ExpiresAt, IssuedAt, etc.
}

// NewSessionManager returns a manager with a single unnamed key.
func NewSessionManager(secret string, duration time.Duration) *SessionManager {
	return NewSessionManagerFromKeys(map[string]string{"default": secret}, "default", duration)
}

// NewSessionManagerFromKeys returns a manager holding several keys, issuing
// new sessions under activeKid while still verifying sessions signed with
// any of the supplied keys.
func NewSessionManagerFromKeys(keys map[string]string, activeKid string, duration time.Duration) *SessionManager {
	return &SessionManager{
		keys:      keys,
		activeKid: activeKid,
		duration:  duration,
	}
}

// Issue creates a signed session token for a user and returns it together
// with its expiry (used for the cookie's Expires attribute).
func (m *SessionManager) Issue(userID, email string) (string, time.Time, error) {
	expiresAt := time.Now().Add(m.duration)

	claims := &Claims{
		UserID: userID,
		Email:  normalize.Email(email),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	// record which key signed this token so Verify can pick it back out
	token.Header["kid"] = m.activeKid

	secret, ok := m.keys[m.activeKid]
	if !ok {
		return "", time.Time{}, fmt.Errorf("unknown active kid %q", m.activeKid)
	}

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a session token and returns its claims.
func (m *SessionManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		// pick the key named in the header; tokens from before rotation
		// name the older kid and still verify
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			kid = m.activeKid
		}
		secret, ok := m.keys[kid]
		if !ok {
			return nil, fmt.Errorf("unknown kid %q", kid)
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid session token")
	}

	claims.Email = normalize.Email(claims.Email)
	return claims, nil
}

// HashPassword returns a bcrypt hash for the provided plaintext.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a plaintext password against a bcrypt hash.
// The comparison is timing-safe.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// Package session gives the listing form access to the API token the page
// shell keeps for a signed-in user.
package session

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// TokenSource reads the bearer token for the current visitor.
type TokenSource interface {
	Token() (string, bool)
}

// Static is a fixed token, mostly for tests.
type Static string

func (s Static) Token() (string, bool) {
	tok := strings.TrimSpace(string(s))
	return tok, tok != ""
}

// Cookie reads the token from a request cookie.
type Cookie struct {
	Ctx  *fiber.Ctx
	Name string
}

func (c Cookie) Token() (string, bool) {
	if c.Ctx == nil {
		return "", false
	}
	tok := strings.TrimSpace(c.Ctx.Cookies(c.Name))
	return tok, tok != ""
}

// Expired reports whether tok is a JWT whose exp claim has passed. The
// signature is not checked; the API stays the authority. Opaque tokens are
// never considered expired.
func Expired(tok string, now time.Time) bool {
	if strings.Count(tok, ".") != 2 {
		return false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

// Usable returns the token from src unless it is missing or expired.
func Usable(src TokenSource, now time.Time) (string, bool) {
	if src == nil {
		return "", false
	}
	tok, ok := src.Token()
	if !ok || Expired(tok, now) {
		return "", false
	}
	return tok, true
}

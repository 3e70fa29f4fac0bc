// Package session abstracts where the session token lives during a request.
package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// DefaultCookieName is the cookie carrying the session token.
const DefaultCookieName = "token"

// Store is the request-scoped home of the session token.
type Store interface {
	Get() (string, bool)
	Set(token string, expiresAt time.Time)
	Delete()
}

// CookieOptions configures the session cookie attributes.
type CookieOptions struct {
	Name   string
	Domain string
	Secure bool
}

func (o CookieOptions) name() string {
	if o.Name == "" {
		return DefaultCookieName
	}
	return o.Name
}

// CookieStore keeps the token in an HTTP-only cookie on a gin request.
type CookieStore struct {
	c       *gin.Context
	opts    CookieOptions
	deleted bool
}

// NewCookieStore binds a cookie store to the request in c.
func NewCookieStore(c *gin.Context, opts CookieOptions) *CookieStore {
	return &CookieStore{c: c, opts: opts}
}

// Get returns the token sent by the client unless it was deleted during this request.
func (s *CookieStore) Get() (string, bool) {
	if s.deleted {
		return "", false
	}
	value, err := s.c.Cookie(s.opts.name())
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

// Set issues the cookie until expiresAt.
func (s *CookieStore) Set(token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		s.Delete()
		return
	}
	s.deleted = false
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(s.opts.name(), token, maxAge, "/", s.opts.Domain, s.opts.Secure, true)
}

// Delete instructs the client to drop the cookie.
func (s *CookieStore) Delete() {
	s.deleted = true
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(s.opts.name(), "", -1, "/", s.opts.Domain, s.opts.Secure, true)
}

// MemoryStore is a Store held in memory, used outside HTTP and in tests.
type MemoryStore struct {
	Token     string
	ExpiresAt time.Time
	Present   bool
	Deletes   int
}

// NewMemoryStore returns a store already holding token, or an empty store
// when token is "".
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{Token: token, Present: token != ""}
}

func (s *MemoryStore) Get() (string, bool) {
	if !s.Present {
		return "", false
	}
	return s.Token, true
}

func (s *MemoryStore) Set(token string, expiresAt time.Time) {
	s.Token = token
	s.ExpiresAt = expiresAt
	s.Present = true
}

func (s *MemoryStore) Delete() {
	s.Token = ""
	s.Present = false
	s.Deletes++
}

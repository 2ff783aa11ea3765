package store

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CookieMaxAge is how long the flag cookie lives: 400 days, the longest
// lifetime browsers accept.
const CookieMaxAge = 400 * 24 * 60 * 60

// Cookie stores values as cookies on the current request/response pair.
// Writes are visible to later reads on the same Cookie.
type Cookie struct {
	c      *gin.Context
	secure bool

	// pending holds values written during this request; a nil entry marks a delete
	pending map[string]*string
}

// NewCookie binds a Cookie store to the request in c.
func NewCookie(c *gin.Context, secure bool) *Cookie {
	return &Cookie{c: c, secure: secure, pending: make(map[string]*string)}
}

func (s *Cookie) Read(_ context.Context, key string) (string, bool, error) {
	if v, ok := s.pending[key]; ok {
		if v == nil {
			return "", false, nil
		}
		return *v, true, nil
	}
	value, err := s.c.Cookie(key)
	if errors.Is(err, http.ErrNoCookie) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Cookie) Write(_ context.Context, key, value string) error {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, value, CookieMaxAge, "/", "", s.secure, true)
	s.pending[key] = &value
	return nil
}

func (s *Cookie) Delete(_ context.Context, key string) error {
	// Negative MaxAge deletes the cookie
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, "", -1, "/", "", s.secure, true)
	s.pending[key] = nil
	return nil
}

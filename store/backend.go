package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/StellaShiina/julebord/config"
)

// VisitorCookie holds the random id that scopes server-side flags.
const VisitorCookie = "visitor_id"

// Backend hands out the flag store for the visitor behind a request.
type Backend interface {
	Bind(c *gin.Context) (Store, error)
}

// VisitorSource is a server-side store that can be scoped per visitor.
type VisitorSource interface {
	For(visitorID string) Store
}

// CookieBackend keeps the flag in the visitor's browser.
type CookieBackend struct {
	Secure bool
}

func (b CookieBackend) Bind(c *gin.Context) (Store, error) {
	return NewCookie(c, b.Secure), nil
}

// SharedBackend returns the same store for every request.
type SharedBackend struct {
	Store Store
}

func (b SharedBackend) Bind(*gin.Context) (Store, error) {
	return b.Store, nil
}

// VisitorBackend scopes a server-side store by the visitor cookie,
// issuing a fresh id when the cookie is missing or malformed.
type VisitorBackend struct {
	Source VisitorSource
	Secure bool
}

func (b VisitorBackend) Bind(c *gin.Context) (Store, error) {
	return b.Source.For(VisitorID(c, b.Secure)), nil
}

// VisitorID returns the visitor id for the request, setting the cookie if needed.
func VisitorID(c *gin.Context, secure bool) string {
	if id, err := c.Cookie(VisitorCookie); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	if id := c.GetString(VisitorCookie); id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(VisitorCookie, id, CookieMaxAge, "/", "", secure, true)
	c.Set(VisitorCookie, id)
	return id
}

// signedBackend wraps every bound store in Signed.
type signedBackend struct {
	inner  Backend
	secret string
}

func (b signedBackend) Bind(c *gin.Context) (Store, error) {
	s, err := b.inner.Bind(c)
	if err != nil {
		return nil, err
	}
	return NewSigned(s, b.secret)
}

// WithSigning wraps backend so stored values are signed with secret.
// An empty secret returns backend unchanged.
func WithSigning(backend Backend, secret string) Backend {
	if secret == "" {
		return backend
	}
	return signedBackend{inner: backend, secret: secret}
}

// Open builds the backend named by cfg.StoreBackend. The returned close
// function releases any connection and is never nil.
func Open(ctx context.Context, cfg *config.Config) (Backend, func() error, error) {
	noop := func() error { return nil }
	var (
		backend Backend
		closer  = noop
	)
	switch cfg.StoreBackend {
	case "", "cookie":
		backend = CookieBackend{Secure: cfg.CookieSecure}
	case "memory":
		backend = SharedBackend{Store: NewMemory()}
	case "sqlite":
		g, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		backend, closer = VisitorBackend{Source: g, Secure: cfg.CookieSecure}, g.Close
	case "postgres":
		g, err := OpenPostgres(cfg.PostgresDSN())
		if err != nil {
			return nil, noop, err
		}
		backend, closer = VisitorBackend{Source: g, Secure: cfg.CookieSecure}, g.Close
	case "redis":
		r, err := OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, noop, err
		}
		backend, closer = VisitorBackend{Source: r, Secure: cfg.CookieSecure}, r.Close
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	return WithSigning(backend, cfg.FlagSigningKey), closer, nil
}

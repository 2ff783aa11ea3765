package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultFlagName is the key the access flag is stored under.
const DefaultFlagName = "access_granted"

// grantedValue is the only stored value that counts as granted.
const grantedValue = "true"

// ErrNotInitialized is returned by GrantAccess and RevokeAccess before the
// flag has been read.
var ErrNotInitialized = errors.New("access controller not initialized")

// Store is the persistence collaborator for the access flag.
type Store interface {
	// Read returns the value stored under key. ok is false when nothing is stored.
	Read(ctx context.Context, key string) (value string, ok bool, err error)
	// Write stores value under key, replacing any previous value.
	Write(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// View is the page the controller wants rendered.
type View int

const (
	Loading View = iota
	Gated
	Protected
)

func (v View) String() string {
	switch v {
	case Loading:
		return "loading"
	case Gated:
		return "gated"
	case Protected:
		return "protected"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

// EventKind names a flag transition.
type EventKind string

const (
	EventGranted EventKind = "granted"
	EventRevoked EventKind = "revoked"
)

// Event describes a grant or revoke.
type Event struct {
	Kind EventKind `json:"kind"`
	Flag string    `json:"flag"`
	At   time.Time `json:"at"`
}

// Notifier receives grant and revoke events.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithFlagName overrides DefaultFlagName.
func WithFlagName(name string) Option {
	return func(c *Controller) {
		if name != "" {
			c.flag = name
		}
	}
}

// WithNotifier sets the notifier told about grants and revokes.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithLogger sets the logger used for notifier failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller holds the access state of one visitor session.
//
// States are Loading, Gated and Protected. Initialize moves Loading to
// Gated or Protected; GrantAccess moves to Protected; RevokeAccess moves
// to Gated.
type Controller struct {
	store    Store
	flag     string
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time

	mu   sync.Mutex
	view View
}

// NewController returns a controller in the Loading state.
func NewController(store Store, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		flag:   DefaultFlagName,
		logger: slog.Default(),
		now:    time.Now,
		view:   Loading,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize reads the flag once and leaves Loading.
// It returns true when the stored value is exactly "true". On a store error
// the controller stays in Loading.
func (c *Controller) Initialize(ctx context.Context) (bool, error) {
	value, ok, err := c.store.Read(ctx, c.flag)
	if err != nil {
		return false, fmt.Errorf("read access flag: %w", err)
	}
	granted := ok && value == grantedValue

	c.mu.Lock()
	defer c.mu.Unlock()
	if granted {
		c.view = Protected
	} else {
		c.view = Gated
	}
	return granted, nil
}

// GrantAccess persists the flag and switches to the protected view.
func (c *Controller) GrantAccess(ctx context.Context) error {
	if c.State() == Loading {
		return ErrNotInitialized
	}
	if err := c.store.Write(ctx, c.flag, grantedValue); err != nil {
		return fmt.Errorf("write access flag: %w", err)
	}
	c.setView(Protected)
	c.notify(ctx, EventGranted)
	return nil
}

// RevokeAccess removes the flag and switches back to the gate.
func (c *Controller) RevokeAccess(ctx context.Context) error {
	if c.State() == Loading {
		return ErrNotInitialized
	}
	if err := c.store.Delete(ctx, c.flag); err != nil {
		return fmt.Errorf("delete access flag: %w", err)
	}
	c.setView(Gated)
	c.notify(ctx, EventRevoked)
	return nil
}

// State returns the current view.
func (c *Controller) State() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// HasAccess reports whether the protected view should be shown.
func (c *Controller) HasAccess() bool {
	return c.State() == Protected
}

// FlagName returns the key the flag is stored under.
func (c *Controller) FlagName() string {
	return c.flag
}

func (c *Controller) setView(v View) {
	c.mu.Lock()
	c.view = v
	c.mu.Unlock()
}

func (c *Controller) notify(ctx context.Context, kind EventKind) {
	if c.notifier == nil {
		return
	}
	event := Event{Kind: kind, Flag: c.flag, At: c.now().UTC()}
	if err := c.notifier.Notify(ctx, event); err != nil {
		c.logger.Warn("access event not delivered", "kind", kind, "error", err)
	}
}

// Package gate holds the passcode form shown before access is granted.
package gate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/StellaShiina/julebord/access"
)

const (
	// DefaultShakeDuration is how long the card shakes after a wrong code.
	DefaultShakeDuration = 500 * time.Millisecond
	// DefaultErrorDuration is how long the wrong-code message stays visible.
	DefaultErrorDuration = 3 * time.Second
)

// ErrSubmitDisabled is returned when Submit is called with a blank code.
var ErrSubmitDisabled = errors.New("gate: code is empty")

// Granter is told when the right code was entered.
type Granter interface {
	GrantAccess(ctx context.Context) error
}

// Scheduler runs fn once after d.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// State is a snapshot of the form.
type State struct {
	Code    string
	Error   bool
	Shaking bool
}

// Option configures a Form.
type Option func(*Form)

// WithDurations overrides the shake and error reset delays.
func WithDurations(shake, errorDelay time.Duration) Option {
	return func(f *Form) {
		f.shakeFor = shake
		f.errorFor = errorDelay
	}
}

// Form is the gate's transient state. It lives as long as the gate view.
type Form struct {
	secret    access.Secret
	granter   Granter
	scheduler Scheduler
	shakeFor  time.Duration
	errorFor  time.Duration

	mu    sync.Mutex
	state State
}

// NewForm returns an empty form.
func NewForm(secret access.Secret, granter Granter, scheduler Scheduler, opts ...Option) *Form {
	f := &Form{
		secret:    secret,
		granter:   granter,
		scheduler: scheduler,
		shakeFor:  DefaultShakeDuration,
		errorFor:  DefaultErrorDuration,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetCode records the typed code, upper-cased.
func (f *Form) SetCode(input string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Code = access.Normalize(input)
}

// CanSubmit reports whether the submit button is enabled.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return canSubmit(f.state.Code)
}

func canSubmit(code string) bool {
	return Trim(code) != ""
}

// Trim strips leading and trailing white space the way the browser's
// String.prototype.trim does, which also drops U+FEFF.
func Trim(code string) string {
	return strings.TrimFunc(code, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

// Submit checks the current code. On a match it grants access and returns
// true. On a mismatch it raises the error and shake flags, schedules their
// resets and returns false. Earlier resets are left to run.
func (f *Form) Submit(ctx context.Context) (bool, error) {
	f.mu.Lock()
	code := f.state.Code
	if !canSubmit(code) {
		f.mu.Unlock()
		return false, ErrSubmitDisabled
	}
	if !f.secret.Matches(code) {
		f.state.Error = true
		f.state.Shaking = true
		f.mu.Unlock()

		f.scheduler.After(f.shakeFor, func() { f.reset(func(s *State) { s.Shaking = false }) })
		f.scheduler.After(f.errorFor, func() { f.reset(func(s *State) { s.Error = false }) })
		return false, nil
	}
	f.mu.Unlock()

	if err := f.granter.GrantAccess(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (f *Form) reset(clear func(*State)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clear(&f.state)
}

// State returns a copy of the form state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

package handlers

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/StellaShiina/julebord/access"
	"github.com/StellaShiina/julebord/content"
	"github.com/StellaShiina/julebord/gate"
	"github.com/StellaShiina/julebord/web"
)

// LoadingRetrySeconds is how often the loading page refreshes itself.
const LoadingRetrySeconds = 3

// Handler serves the gate, the programme and the JSON API.
type Handler struct {
	Secret     access.Secret
	Program    *content.Holder
	ShakeDelay time.Duration
	ErrorDelay time.Duration
	Logger     *slog.Logger
	// Rand feeds the snowfall; nil uses the global source. A non-nil Rand
	// is not safe for concurrent requests.
	Rand *rand.Rand
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func (h *Handler) shakeDelay() time.Duration {
	if h.ShakeDelay <= 0 {
		return gate.DefaultShakeDuration
	}
	return h.ShakeDelay
}

func (h *Handler) errorDelay() time.Duration {
	if h.ErrorDelay <= 0 {
		return gate.DefaultErrorDuration
	}
	return h.ErrorDelay
}

// newForm returns a gate form bound to ctrl. Resets are queued, not run:
// the browser performs them after the delays rendered into the page.
func (h *Handler) newForm(ctrl gate.Granter) *gate.Form {
	return gate.NewForm(h.Secret, ctrl, gate.NewQueue(), gate.WithDurations(h.shakeDelay(), h.errorDelay()))
}

// pageData returns the fields every template uses.
func (h *Handler) pageData(title string) gin.H {
	return gin.H{
		"Title": title,
		"Lang":  web.Lang.String(),
		"Snow":  web.Snowflakes(web.SnowflakeCount, h.Rand),
	}
}

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/StellaShiina/julebord/access"
	"github.com/StellaShiina/julebord/store"
)

const controllerKey = "access_controller"

// AccessOptions configures the controller built for each request.
type AccessOptions struct {
	FlagName string
	Notifier access.Notifier
	Logger   *slog.Logger
}

// Access binds the visitor's flag store, reads the flag and puts the
// controller in the context. A failed read leaves the controller Loading.
func Access(backend store.Backend, opts AccessOptions) gin.HandlerFunc {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		s, err := backend.Bind(c)
		if err != nil {
			logger.Error("bind access store", "error", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Access store unavailable"})
			return
		}

		ctrlOpts := []access.Option{access.WithFlagName(opts.FlagName), access.WithLogger(logger)}
		if opts.Notifier != nil {
			ctrlOpts = append(ctrlOpts, access.WithNotifier(opts.Notifier))
		}
		ctrl := access.NewController(s, ctrlOpts...)
		if _, err := ctrl.Initialize(c.Request.Context()); err != nil {
			logger.Error("initialize access", "error", err)
		}

		c.Set(controllerKey, ctrl)
		c.Next()
	}
}

// Controller returns the controller set by Access.
func Controller(c *gin.Context) *access.Controller {
	v, ok := c.Get(controllerKey)
	if !ok {
		return nil
	}
	ctrl, _ := v.(*access.Controller)
	return ctrl
}

// AccessRequired rejects API requests from visitors who have not passed the gate.
func AccessRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl := Controller(c)
		if ctrl == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Access middleware missing"})
			c.Abort()
			return
		}

		switch ctrl.State() {
		case access.Protected:
			c.Next()
		case access.Loading:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Access flag unavailable"})
			c.Abort()
		default:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Access code required"})
			c.Abort()
		}
	}
}

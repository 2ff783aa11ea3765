package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/StellaShiina/julebord/access"
	"github.com/StellaShiina/julebord/gate"
	"github.com/StellaShiina/julebord/middleware"
)

// CodeRequest is the body of POST /api/v1/access.
type CodeRequest struct {
	Code string `json:"code"`
}

// CheckAccess reports whether the visitor has passed the gate.
func (h *Handler) CheckAccess(c *gin.Context) {
	ctrl := middleware.Controller(c)
	switch ctrl.State() {
	case access.Protected:
		c.JSON(http.StatusOK, gin.H{"granted": true, "view": access.Protected.String()})
	case access.Gated:
		c.JSON(http.StatusUnauthorized, gin.H{"granted": false, "view": access.Gated.String()})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"granted": false, "view": access.Loading.String()})
	}
}

// GrantAccess checks a code sent as JSON. The code is compared even when
// the visitor already has access, so a wrong code always answers 401.
func (h *Handler) GrantAccess(c *gin.Context) {
	var req CodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	ctrl := middleware.Controller(c)
	if ctrl.State() == access.Loading {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Access flag unavailable"})
		return
	}

	form := h.newForm(ctrl)
	form.SetCode(req.Code)
	granted, err := form.Submit(c.Request.Context())
	switch {
	case errors.Is(err, gate.ErrSubmitDisabled):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code required"})
	case err != nil:
		h.logger().Error("grant access", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store access flag"})
	case granted:
		c.JSON(http.StatusOK, gin.H{"message": "Access granted", "granted": true})
	default:
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":    "Invalid code",
			"granted":  false,
			"shake_ms": h.shakeDelay().Milliseconds(),
			"error_ms": h.errorDelay().Milliseconds(),
		})
	}
}

// RevokeAccess clears the flag.
func (h *Handler) RevokeAccess(c *gin.Context) {
	ctrl := middleware.Controller(c)
	if err := ctrl.RevokeAccess(c.Request.Context()); err != nil {
		if errors.Is(err, access.ErrNotInitialized) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Access flag unavailable"})
			return
		}
		h.logger().Error("revoke access", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear access flag"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Access revoked"})
}

// GetProgram returns the programme as JSON. Mounted behind AccessRequired.
func (h *Handler) GetProgram(c *gin.Context) {
	c.JSON(http.StatusOK, h.Program.Get())
}

// Health is a liveness probe.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

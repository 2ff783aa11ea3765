package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/StellaShiina/julebord/access"
	"github.com/StellaShiina/julebord/gate"
	"github.com/StellaShiina/julebord/middleware"
)

// IndexPage renders whichever view the access controller settled on.
func (h *Handler) IndexPage(c *gin.Context) {
	ctrl := middleware.Controller(c)
	switch ctrl.State() {
	case access.Protected:
		h.renderProtected(c)
	case access.Gated:
		h.renderGate(c, http.StatusOK, gate.State{})
	default:
		h.renderLoading(c)
	}
}

// SubmitCode handles the gate form post.
func (h *Handler) SubmitCode(c *gin.Context) {
	ctrl := middleware.Controller(c)
	switch ctrl.State() {
	case access.Loading:
		h.renderLoading(c)
		return
	case access.Protected:
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	form := h.newForm(ctrl)
	form.SetCode(c.PostForm("code"))
	granted, err := form.Submit(c.Request.Context())
	switch {
	case errors.Is(err, gate.ErrSubmitDisabled):
		h.renderGate(c, http.StatusBadRequest, form.State())
	case err != nil:
		h.logger().Error("grant access", "error", err)
		c.String(http.StatusInternalServerError, "Kunne ikke lagre tilgang")
	case granted:
		c.Redirect(http.StatusSeeOther, "/")
	default:
		h.renderGate(c, http.StatusUnauthorized, form.State())
	}
}

// Logout clears the flag and returns to the gate.
func (h *Handler) Logout(c *gin.Context) {
	ctrl := middleware.Controller(c)
	if err := ctrl.RevokeAccess(c.Request.Context()); err != nil {
		if errors.Is(err, access.ErrNotInitialized) {
			h.renderLoading(c)
			return
		}
		h.logger().Error("revoke access", "error", err)
		c.String(http.StatusInternalServerError, "Kunne ikke logge ut")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) renderGate(c *gin.Context, status int, state gate.State) {
	data := h.pageData("God Jul!")
	data["Code"] = state.Code
	data["Error"] = state.Error
	data["Shaking"] = state.Shaking
	data["CanSubmit"] = gate.Trim(state.Code) != ""
	data["Hint"] = h.Secret.Code()
	data["ShakeMS"] = h.shakeDelay().Milliseconds()
	data["ErrorMS"] = h.errorDelay().Milliseconds()
	c.HTML(status, "gate.html", data)
}

func (h *Handler) renderProtected(c *gin.Context) {
	program := h.Program.Get()
	data := h.pageData(program.Title)
	data["Program"] = program
	c.HTML(http.StatusOK, "protected.html", data)
}

func (h *Handler) renderLoading(c *gin.Context) {
	data := h.pageData("Laster …")
	data["RetrySeconds"] = LoadingRetrySeconds
	c.HTML(http.StatusServiceUnavailable, "loading.html", data)
}

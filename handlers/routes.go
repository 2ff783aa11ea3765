package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/StellaShiina/julebord/middleware"
	"github.com/StellaShiina/julebord/store"
	"github.com/StellaShiina/julebord/web"
)

// RouterOptions carries what NewRouter wires together.
type RouterOptions struct {
	Backend store.Backend
	Access  middleware.AccessOptions
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(h *Handler, opts RouterOptions) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(h.logger()))
	r.SetHTMLTemplate(tmpl)
	if err := r.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
		return nil, err
	}

	r.GET("/healthz", Health)
	r.StaticFS("/assets", http.FS(web.Static()))

	gated := r.Group("/", middleware.Access(opts.Backend, opts.Access))
	{
		gated.GET("/", h.IndexPage)
		gated.POST("/access", h.SubmitCode)
		gated.POST("/logout", h.Logout)
		gated.GET("/logout", h.Logout)
	}

	api := r.Group("/api/v1", middleware.Access(opts.Backend, opts.Access))
	{
		api.GET("/access", h.CheckAccess)
		api.POST("/access", h.GrantAccess)
		api.DELETE("/access", h.RevokeAccess)
		api.GET("/program", middleware.AccessRequired(), h.GetProgram)
	}

	return r, nil
}

package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/StellaShiina/julebord/access"
	"github.com/StellaShiina/julebord/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAccessSetsInitializedController(t *testing.T) {
	var seen *access.Controller
	r := gin.New()
	r.Use(Access(store.CookieBackend{}, AccessOptions{FlagName: "julebord", Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}))
	r.GET("/", func(c *gin.Context) {
		seen = Controller(c)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "julebord", Value: "true"})
	r.ServeHTTP(httptest.NewRecorder(), req)

	if assert.NotNil(t, seen) {
		assert.Equal(t, access.Protected, seen.State())
		assert.Equal(t, "julebord", seen.FlagName())
	}
}

func TestAccessRequired(t *testing.T) {
	r := gin.New()
	r.GET("/bare", AccessRequired(), func(c *gin.Context) { c.Status(http.StatusOK) })
	api := r.Group("/", Access(store.CookieBackend{}, AccessOptions{}))
	api.GET("/program", AccessRequired(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bare", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/program", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error": "Access code required"}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/program", nil)
	req.AddCookie(&http.Cookie{Name: access.DefaultFlagName, Value: "true"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

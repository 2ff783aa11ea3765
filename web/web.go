// Package web embeds the page templates and static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"math/rand/v2"

	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Lang is the language of all page copy.
var Lang = language.Norwegian

// SnowflakeCount is how many flakes each page renders.
const SnowflakeCount = 50

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	funcs := template.FuncMap{
		"even": func(i int) bool { return i%2 == 0 },
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// Static returns the asset tree served under /assets.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// static is embedded at build time, so Sub cannot fail
		panic(err)
	}
	return sub
}

// Snowflake is one falling flake. All fields are cosmetic.
type Snowflake struct {
	ID       int
	Left     float64 // percent of viewport width
	Duration float64 // seconds
	Opacity  float64
	Size     float64 // px
	Delay    float64 // seconds
}

// Snowflakes returns n flakes drawn from r. A nil r uses the global source.
func Snowflakes(n int, r *rand.Rand) []Snowflake {
	f64 := rand.Float64
	if r != nil {
		f64 = r.Float64
	}
	flakes := make([]Snowflake, n)
	for i := range flakes {
		flakes[i] = Snowflake{
			ID:       i,
			Left:     f64() * 100,
			Duration: 5 + f64()*10,
			Opacity:  0.3 + f64()*0.7,
			Size:     4 + f64()*8,
			Delay:    f64() * 5,
		}
	}
	return flakes
}

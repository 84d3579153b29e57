// Package web embeds the HTML templates and static assets of the estimator
// server.
package web

import (
	"embed"
	"html/template"
	"io/fs"

	"github.com/shopspring/decimal"

	"github.com/akbarifar/mro-estimator/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return report.Money(d) },
	"mult":  func(d decimal.Decimal) string { return report.Multiplier(d) },
}

// Page parses the layout together with one page template.
func Page(name string) (*template.Template, error) {
	return template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
}

// Static returns the static asset tree rooted at its own directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.New("").Funcs(template.FuncMap{
	"add": func(a, b float64) float64 { return a + b },
	"sub": func(a, b float64) float64 { return a - b },
	"mid": func(x, w float64) float64 { return x + w/2 },
}).ParseFS(templateFS, "templates/*.tmpl"))

// CaptionHTML renders markdown to HTML. Raw HTML in the input is dropped.
func CaptionHTML(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(md), p, r))
}

// Render writes r as a standalone HTML page.
func Render(w io.Writer, r Report) error {
	data := struct {
		Report
		CaptionHTML template.HTML
		BarHeight   float64
	}{
		Report:      r,
		CaptionHTML: CaptionHTML(r.Caption),
		BarHeight:   barHeight,
	}
	if err := pageTemplate.ExecuteTemplate(w, "report.html.tmpl", data); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

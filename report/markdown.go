package report

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/finsim/output"
)

//go:embed templates/*.md
var templates embed.FS

// Markdown renders r as a markdown document.
func Markdown(r Report) (string, error) {
	tmpl, err := template.New("report.md").
		Funcs(template.FuncMap{
			"money": func(d decimal.Decimal) string { return output.Money(d, r.Currency) },
		}).
		ParseFS(templates, "templates/report.md")
	if err != nil {
		return "", fmt.Errorf("error parsing report template: %w", err)
	}

	entity, err := templates.ReadFile("templates/entity.md")
	if err != nil {
		return "", fmt.Errorf("error reading entity template: %w", err)
	}
	if _, err := tmpl.New("entity").Parse(string(entity)); err != nil {
		return "", fmt.Errorf("error parsing entity template: %w", err)
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, "report.md", r); err != nil {
		return "", fmt.Errorf("error executing report template: %w", err)
	}
	return b.String(), nil
}

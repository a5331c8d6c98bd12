package printing

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/billbook/backend/internal/infrastructure/export"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateEngine renders HTML templates with the formatting helpers used on
// printed documents
type TemplateEngine struct {
	funcMap template.FuncMap
}

// NewTemplateEngine creates an engine with the default helpers
func NewTemplateEngine() *TemplateEngine {
	return &TemplateEngine{
		funcMap: template.FuncMap{
			"formatAmount": formatAmount,
			"formatRate":   formatRate,
			"formatDate":   formatDate,
			"title":        titleCase,
			"upper":        strings.ToUpper,
			"join":         strings.Join,
			"default":      defaultFunc,
			"isPositive":   func(v any) bool { return toDecimal(v).IsPositive() },
			"lines":        func(s string) []string { return strings.Split(strings.TrimSpace(s), "\n") },
		},
	}
}

// Parse compiles content under name
func (e *TemplateEngine) Parse(name, content string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplate, "failed to parse template "+name, err)
	}
	return tmpl, nil
}

// Execute runs a parsed template against data
func (e *TemplateEngine) Execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeTemplate, "failed to execute template "+tmpl.Name(), err)
	}
	return buf.String(), nil
}

// RenderString parses and executes content in one step
func (e *TemplateEngine) RenderString(name, content string, data any) (string, error) {
	tmpl, err := e.Parse(name, content)
	if err != nil {
		return "", err
	}
	return e.Execute(tmpl, data)
}

// formatAmount prints money with Indian digit grouping, e.g. 1,18,000.00
func formatAmount(v any) string {
	return export.FormatAmount(toDecimal(v))
}

// formatRate prints hours and rates without trailing zeros
func formatRate(v any) string {
	d := toDecimal(v)
	if d.IsZero() {
		return ""
	}
	return d.String()
}

// formatDate prints dd-mm-yyyy, the form used on Indian tax invoices
func formatDate(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("02-01-2006")
}

func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}

func defaultFunc(def, v any) any {
	switch val := v.(type) {
	case nil:
		return def
	case string:
		if strings.TrimSpace(val) == "" {
			return def
		}
	}
	return v
}

func toDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

func toTime(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	case string:
		for _, f := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(f, val); err == nil {
				return t
			}
		}
		return time.Time{}
	default:
		return time.Time{}
	}
}

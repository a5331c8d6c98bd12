package printing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateEngine_RenderString(t *testing.T) {
	e := NewTemplateEngine()

	tests := []struct {
		name     string
		template string
		data     any
		want     string
	}{
		{"plain field", "{{.}}", "hello", "hello"},
		{"escapes html", "{{.}}", "<b>", "&lt;b&gt;"},
		{"formatAmount", "{{formatAmount .}}", decimal.RequireFromString("1180"), "1,180.00"},
		{"formatDate", "{{formatDate .}}", time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC), "05-04-2024"},
		{"formatDate nil pointer", "{{formatDate .}}", (*time.Time)(nil), ""},
		{"formatRate", "{{formatRate .}}", decimal.RequireFromString("12.50"), "12.5"},
		{"formatRate zero", "{{formatRate .}}", decimal.Zero, ""},
		{"title", "{{title .}}", "ACME TRADERS", "Acme Traders"},
		{"default on blank", `{{default "n/a" .}}`, "  ", "n/a"},
		{"default keeps value", `{{default "n/a" .}}`, "x", "x"},
		{"lines", `{{range lines .}}[{{.}}]{{end}}`, "a\nb\n", "[a][b]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.RenderString("t", tt.template, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTemplateEngine_Errors(t *testing.T) {
	e := NewTemplateEngine()

	_, err := e.RenderString("bad", "{{.Missing", nil)
	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, ErrCodeTemplate, renderErr.Code)

	_, err = e.RenderString("exec", "{{.Missing.Field}}", struct{}{})
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, ErrCodeTemplate, renderErr.Code)
}

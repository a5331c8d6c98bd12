package printing

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"

	"github.com/billbook/backend/internal/domain/invoicing"
	"github.com/billbook/backend/internal/domain/settings"
	"github.com/shopspring/decimal"
)

//go:embed templates/invoice.html
var defaultInvoiceTemplate string

var hundred = decimal.NewFromInt(100)

// InvoiceView is the data an invoice template is executed with
type InvoiceView struct {
	Invoice *invoicing.Invoice
	Seller  settings.Profile
	// Consignee falls back to the buyer when none was given
	Consignee  invoicing.Party
	IntraState bool
	InterState bool
	Export     bool
	Foreign    bool
	IntraRate  string
	InterRate  string
}

// NewInvoiceView classifies the supply with the pricer's tax rules so the
// template can pick the tax rows to print
func NewInvoiceView(inv *invoicing.Invoice, seller *settings.Setting, pricer invoicing.Pricer) InvoiceView {
	calc := pricer.Tax
	v := InvoiceView{
		Invoice:   inv,
		Consignee: inv.Consignee,
		IntraRate: calc.IntraStateRate.Mul(hundred).String(),
		InterRate: calc.InterStateRate.Mul(hundred).String(),
		Foreign:   inv.Currency != "" && inv.Currency != pricer.Currency.HomeCurrency,
	}
	if seller != nil {
		v.Seller = seller.Profile
	}
	if v.Consignee.IsEmpty() {
		v.Consignee = inv.Buyer
	}

	switch calc.SupplyType(inv.Country, inv.State) {
	case invoicing.SupplyIntraState:
		v.IntraState = true
	case invoicing.SupplyInterState:
		v.InterState = true
	default:
		v.Export = true
	}
	return v
}

// InvoiceTemplate renders invoices to HTML
type InvoiceTemplate struct {
	engine *TemplateEngine
	tmpl   *template.Template
}

// NewInvoiceTemplate compiles the built-in invoice layout
func NewInvoiceTemplate() (*InvoiceTemplate, error) {
	return newInvoiceTemplate("invoice", defaultInvoiceTemplate)
}

// LoadInvoiceTemplate compiles the layout at path, falling back to the
// built-in one when path is empty
func LoadInvoiceTemplate(path string) (*InvoiceTemplate, error) {
	if path == "" {
		return NewInvoiceTemplate()
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read invoice template: %w", err)
	}
	return newInvoiceTemplate(path, string(content))
}

func newInvoiceTemplate(name, content string) (*InvoiceTemplate, error) {
	engine := NewTemplateEngine()
	tmpl, err := engine.Parse(name, content)
	if err != nil {
		return nil, err
	}
	return &InvoiceTemplate{engine: engine, tmpl: tmpl}, nil
}

// Render executes the template
func (t *InvoiceTemplate) Render(view InvoiceView) (string, error) {
	return t.engine.Execute(t.tmpl, view)
}

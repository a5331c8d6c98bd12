package printing

import (
	"context"
	"fmt"

	"github.com/billbook/backend/internal/domain/invoicing"
	"github.com/billbook/backend/internal/domain/settings"
	"go.uber.org/zap"
)

const pageFooter = `<div style="font-size:8px;width:100%;text-align:center;">` +
	`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`

// InvoicePrinter renders invoices to PDF
type InvoicePrinter struct {
	template *InvoiceTemplate
	renderer PDFRenderer
	pricer   invoicing.Pricer
	paper    Paper
	logger   *zap.Logger
}

// NewInvoicePrinter combines a template and a renderer
func NewInvoicePrinter(tmpl *InvoiceTemplate, renderer PDFRenderer, pricer invoicing.Pricer, paper Paper, logger *zap.Logger) *InvoicePrinter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !paper.IsValid() {
		paper = PaperA4
	}
	return &InvoicePrinter{template: tmpl, renderer: renderer, pricer: pricer, paper: paper, logger: logger}
}

// RenderHTML returns the invoice markup without printing it
func (p *InvoicePrinter) RenderHTML(inv *invoicing.Invoice, seller *settings.Setting) (string, error) {
	if inv == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "invoice is nil", nil)
	}
	return p.template.Render(NewInvoiceView(inv, seller, p.pricer))
}

// Print renders the invoice and prints it to PDF
func (p *InvoicePrinter) Print(ctx context.Context, inv *invoicing.Invoice, seller *settings.Setting) ([]byte, error) {
	html, err := p.RenderHTML(inv, seller)
	if err != nil {
		return nil, err
	}

	result, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:       html,
		Paper:      p.paper,
		Margins:    DefaultMargins(),
		Title:      "Tax Invoice " + inv.InvoiceNumber,
		FooterHTML: pageFooter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to print invoice %s: %w", inv.InvoiceNumber, err)
	}

	p.logger.Info("Invoice printed",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result.PDFData, nil
}

// Close releases the renderer
func (p *InvoicePrinter) Close() error {
	return p.renderer.Close()
}

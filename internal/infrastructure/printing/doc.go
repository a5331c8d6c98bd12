// Package printing turns invoices into PDF documents.
//
// An InvoiceTemplate renders the invoice and the seller profile to HTML; a
// PDFRenderer prints that HTML through headless Chrome. InvoicePrinter ties
// both together for the HTTP layer:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{RemoteURL: "ws://chrome:9222"})
//	if err != nil {
//	    return err
//	}
//	tmpl, err := NewInvoiceTemplate()
//	if err != nil {
//	    return err
//	}
//	printer := NewInvoicePrinter(tmpl, renderer, invoicing.NewPricer(), PaperA4, logger)
//	pdf, err := printer.Print(ctx, invoice, seller)
package printing

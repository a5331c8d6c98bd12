package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// InvoiceMetrics counts invoicing activity: invoices issued and deleted,
// number allocations lost to a concurrent create, and foreign totals
// converted without an exchange rate.
type InvoiceMetrics struct {
	issuedTotal          *Counter
	deletedTotal         *Counter
	allocationRetryTotal *Counter
	rateDefaultedTotal   *Counter
}

// NewInvoiceMetrics creates the invoicing instruments on meter.
func NewInvoiceMetrics(meter metric.Meter) (*InvoiceMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &InvoiceMetrics{}
	var err error
	if m.issuedTotal, err = NewCounter(meter, "invoice_issued_total",
		"Invoices issued by currency and supply type", "{invoice}"); err != nil {
		return nil, err
	}
	if m.deletedTotal, err = NewCounter(meter, "invoice_deleted_total",
		"Invoices soft-deleted", "{invoice}"); err != nil {
		return nil, err
	}
	if m.allocationRetryTotal, err = NewCounter(meter, "invoice_allocation_retry_total",
		"Invoice creates retried after losing a number to a concurrent request", "{retry}"); err != nil {
		return nil, err
	}
	if m.rateDefaultedTotal, err = NewCounter(meter, "invoice_rate_defaulted_total",
		"Foreign-currency invoices saved without an exchange rate", "{invoice}"); err != nil {
		return nil, err
	}
	return m, nil
}

// InvoiceIssued counts one newly numbered invoice.
func (m *InvoiceMetrics) InvoiceIssued(ctx context.Context, currency, supply string) {
	m.issuedTotal.Inc(ctx, AttrCurrency.String(currency), AttrSupply.String(supply))
}

func (m *InvoiceMetrics) InvoiceDeleted(ctx context.Context) {
	m.deletedTotal.Inc(ctx)
}

func (m *InvoiceMetrics) AllocationRetried(ctx context.Context) {
	m.allocationRetryTotal.Inc(ctx)
}

func (m *InvoiceMetrics) RateDefaulted(ctx context.Context, currency string) {
	m.rateDefaultedTotal.Inc(ctx, AttrCurrency.String(currency))
}

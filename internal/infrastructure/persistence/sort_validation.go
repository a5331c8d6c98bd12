package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes a sort direction to ASC or DESC. Anything
// other than "asc" sorts descending.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted and
// defaultField otherwise. Column names reach ORDER BY unquoted, so only
// whitelisted names may pass.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"invoice_date":   true,
	"invoice_number": true,
	"buyer_name":     true,
	"total_with_gst": true,
	"created_at":     true,
}

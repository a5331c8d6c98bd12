package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"whitespace around asc returns ASC", "  asc  ", "ASC"},
		{"desc returns DESC", "desc", "DESC"},
		{"injection attempt returns DESC", "ASC; DROP TABLE invoices;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fallback string
		expected string
	}{
		{"whitelisted field", "buyer_name", "", "buyer_name"},
		{"trimmed", "  invoice_date ", "", "invoice_date"},
		{"empty uses default", "", "created_at", "created_at"},
		{"unknown column", "password_hash", "created_at", "created_at"},
		{"case matters", "Buyer_Name", "", ""},
		{"injection", "buyer_name; DROP TABLE invoices;--", "", ""},
		{"subquery", "buyer_name, (SELECT password_hash FROM users)", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, InvoiceSortFields, tt.fallback))
		})
	}
}

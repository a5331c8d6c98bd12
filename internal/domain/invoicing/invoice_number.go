package invoicing

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatInvoiceNumber renders a sequence as "NN-START/END", zero-padded to
// at least two digits.
func FormatInvoiceNumber(sequence int, fy FinancialYear) string {
	return fmt.Sprintf("%02d-%s", sequence, fy)
}

// ParseInvoiceSequence extracts the numeric prefix before the first "-".
// ok is false for missing or non-numeric prefixes such as "abc-2024/2025".
func ParseInvoiceSequence(number string) (sequence int, ok bool) {
	prefix, _, _ := strings.Cut(strings.TrimSpace(number), "-")
	if prefix == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(prefix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// HighestSequence returns the largest sequence among stored sequences and
// legacy invoice numbers. Unparseable numbers count as zero.
func HighestSequence(sequences []int, numbers []string) int {
	highest := 0
	for _, seq := range sequences {
		if seq > highest {
			highest = seq
		}
	}
	for _, number := range numbers {
		if seq, ok := ParseInvoiceSequence(number); ok && seq > highest {
			highest = seq
		}
	}
	return highest
}

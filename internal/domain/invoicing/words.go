package invoicing

import (
	"strings"

	"github.com/billbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var smallNumberWords = [...]string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = [...]string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// AmountInWords spells an amount using the Indian numbering system
// (thousand, lakh, crore), e.g. "Rupees One Lakh Eighteen Thousand Only".
// Amounts are rounded to two places; the fraction is spelled as paise for
// INR and cents for any other currency.
func AmountInWords(amount decimal.Decimal, currency valueobject.Currency) string {
	amount = valueobject.RoundAmount(amount)
	negative := amount.IsNegative()
	amount = amount.Abs()

	whole := amount.IntPart()
	fraction := amount.Sub(decimal.NewFromInt(whole)).Mul(decimal.NewFromInt(100)).IntPart()

	unit, subunit := "Rupees", "Paise"
	if currency != "" && currency != valueobject.INR {
		unit, subunit = string(currency), "Cents"
	}

	var b strings.Builder
	if negative {
		b.WriteString("Minus ")
	}
	b.WriteString(unit)
	b.WriteString(" ")
	b.WriteString(IndianNumberWords(whole))
	if fraction > 0 {
		b.WriteString(" and ")
		b.WriteString(IndianNumberWords(fraction))
		b.WriteString(" ")
		b.WriteString(subunit)
	}
	b.WriteString(" Only")
	return b.String()
}

// IndianNumberWords spells a non-negative integer with lakh and crore groups
func IndianNumberWords(n int64) string {
	if n <= 0 {
		return "Zero"
	}

	var parts []string
	if crore := n / 10000000; crore > 0 {
		parts = append(parts, IndianNumberWords(crore)+" Crore")
		n %= 10000000
	}
	if lakh := n / 100000; lakh > 0 {
		parts = append(parts, belowHundredWords(lakh)+" Lakh")
		n %= 100000
	}
	if thousand := n / 1000; thousand > 0 {
		parts = append(parts, belowHundredWords(thousand)+" Thousand")
		n %= 1000
	}
	if hundred := n / 100; hundred > 0 {
		parts = append(parts, smallNumberWords[hundred]+" Hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, belowHundredWords(n))
	}
	return strings.Join(parts, " ")
}

func belowHundredWords(n int64) string {
	if n < 20 {
		return smallNumberWords[n]
	}
	if n%10 == 0 {
		return tensWords[n/10]
	}
	return tensWords[n/10] + " " + smallNumberWords[n%10]
}

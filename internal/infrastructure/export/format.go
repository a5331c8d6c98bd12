// Package export renders reconciled ledgers as spreadsheets.
package export

import (
	"github.com/billbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// indianLocale groups digits as 1,23,45,678
var indianLocale = language.MustParse("en-IN")

// FormatAmount prints an amount with two decimals and Indian digit grouping
func FormatAmount(d decimal.Decimal) string {
	p := message.NewPrinter(indianLocale)
	return p.Sprint(number.Decimal(
		valueobject.RoundAmount(d).InexactFloat64(),
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

// indianNumFmt is the spreadsheet counterpart of FormatAmount
const indianNumFmt = `[>=10000000]##\,##\,##\,##0.00;[>=100000]##\,##\,##0.00;##,##0.00`

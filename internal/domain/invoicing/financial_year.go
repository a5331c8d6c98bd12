package invoicing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FinancialYearStartMonth is the first month of an Indian financial year
const FinancialYearStartMonth = time.April

// FinancialYear is an April to March accounting period, identified by the
// calendar year it starts in and labelled "START/START+1".
type FinancialYear struct {
	StartYear int
}

// NewFinancialYear returns the financial year starting in April of startYear
func NewFinancialYear(startYear int) FinancialYear {
	return FinancialYear{StartYear: startYear}
}

// ResolveFinancialYear returns the financial year a date falls in.
// January to March belong to the year that started the previous April.
func ResolveFinancialYear(date time.Time) FinancialYear {
	if date.Month() >= FinancialYearStartMonth {
		return FinancialYear{StartYear: date.Year()}
	}
	return FinancialYear{StartYear: date.Year() - 1}
}

// FinancialYearFor resolves the financial year of date, falling back to now()
// when no date is given.
func FinancialYearFor(date *time.Time, now func() time.Time) FinancialYear {
	if date != nil && !date.IsZero() {
		return ResolveFinancialYear(*date)
	}
	if now == nil {
		now = time.Now
	}
	return ResolveFinancialYear(now())
}

// ParseFinancialYear parses a "YYYY/YYYY" label. The end year must follow the
// start year.
func ParseFinancialYear(label string) (FinancialYear, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(label), "/")
	if !ok {
		return FinancialYear{}, fmt.Errorf("financial year %q: expected START/END", label)
	}
	startYear, err := strconv.Atoi(start)
	if err != nil || len(start) != 4 {
		return FinancialYear{}, fmt.Errorf("financial year %q: invalid start year", label)
	}
	endYear, err := strconv.Atoi(end)
	if err != nil || len(end) != 4 {
		return FinancialYear{}, fmt.Errorf("financial year %q: invalid end year", label)
	}
	if endYear != startYear+1 {
		return FinancialYear{}, fmt.Errorf("financial year %q: end year must follow start year", label)
	}
	return FinancialYear{StartYear: startYear}, nil
}

// String returns the "START/START+1" label
func (fy FinancialYear) String() string {
	return fmt.Sprintf("%d/%d", fy.StartYear, fy.StartYear+1)
}

// IsZero reports whether the financial year is unset
func (fy FinancialYear) IsZero() bool {
	return fy.StartYear == 0
}

// Start returns the first day of the financial year in loc
func (fy FinancialYear) Start(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(fy.StartYear, FinancialYearStartMonth, 1, 0, 0, 0, 0, loc)
}

// End returns the first instant after the financial year in loc
func (fy FinancialYear) End(loc *time.Location) time.Time {
	return fy.Start(loc).AddDate(1, 0, 0)
}

// Contains reports whether date falls inside the financial year
func (fy FinancialYear) Contains(date time.Time) bool {
	return ResolveFinancialYear(date) == fy
}

// Next returns the following financial year
func (fy FinancialYear) Next() FinancialYear {
	return FinancialYear{StartYear: fy.StartYear + 1}
}

package invoicing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveFinancialYear(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{"april first starts new year", date(2024, time.April, 1), "2024/2025"},
		{"march end belongs to previous", date(2025, time.March, 31), "2024/2025"},
		{"january", date(2025, time.January, 15), "2024/2025"},
		{"december", date(2024, time.December, 31), "2024/2025"},
		{"march first", date(2024, time.March, 1), "2023/2024"},
		{"leap day", date(2024, time.February, 29), "2023/2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveFinancialYear(tt.date).String())
		})
	}
}

func TestResolveFinancialYear_EveryMonth(t *testing.T) {
	for year := 2020; year <= 2030; year++ {
		for m := time.January; m <= time.December; m++ {
			fy := ResolveFinancialYear(date(year, m, 10))
			want := year
			if m < time.April {
				want = year - 1
			}
			assert.Equal(t, want, fy.StartYear, "%d-%02d", year, m)
			assert.True(t, fy.Contains(date(year, m, 10)))
		}
	}
}

func TestFinancialYearFor(t *testing.T) {
	now := func() time.Time { return date(2026, time.February, 3) }

	t.Run("nil date uses now", func(t *testing.T) {
		assert.Equal(t, "2025/2026", FinancialYearFor(nil, now).String())
	})

	t.Run("zero date uses now", func(t *testing.T) {
		zero := time.Time{}
		assert.Equal(t, "2025/2026", FinancialYearFor(&zero, now).String())
	})

	t.Run("given date wins", func(t *testing.T) {
		d := date(2026, time.May, 1)
		assert.Equal(t, "2026/2027", FinancialYearFor(&d, now).String())
	})
}

func TestParseFinancialYear(t *testing.T) {
	fy, err := ParseFinancialYear("2024/2025")
	require.NoError(t, err)
	assert.Equal(t, 2024, fy.StartYear)

	for _, bad := range []string{"", "2024", "2024-2025", "2024/2026", "24/25", "abcd/abce"} {
		t.Run(bad, func(t *testing.T) {
			_, err := ParseFinancialYear(bad)
			assert.Error(t, err)
		})
	}
}

func TestFinancialYear_Bounds(t *testing.T) {
	fy := NewFinancialYear(2024)
	assert.Equal(t, date(2024, time.April, 1), fy.Start(nil))
	assert.Equal(t, date(2025, time.April, 1), fy.End(time.UTC))
	assert.Equal(t, "2025/2026", fy.Next().String())
	assert.False(t, fy.IsZero())
	assert.True(t, FinancialYear{}.IsZero())
}

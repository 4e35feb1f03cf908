package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("Valid date", func(t *testing.T) {
		date, err := ParseDate("2025-07-01")
		assert.NoError(t, err)
		assert.Equal(t, 2025, date.Year)
		assert.Equal(t, 7, date.Month)
		assert.Equal(t, 1, date.Day)
		assert.Equal(t, "2025-07-01", date.String())
	})

	t.Run("Invalid format", func(t *testing.T) {
		_, err := ParseDate("2025/07/01")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid date format")
	})

	t.Run("Non canonical forms", func(t *testing.T) {
		for _, in := range []string{
			"+2025-7-1",
			" 2025-07-04",
			"2025-07-04 ",
			"2025-7-01",
			"2025-07-1",
			"12025-07-01",
			"-025-07-01",
			"2025-07-01T00:00:00Z",
			"",
		} {
			_, err := ParseDate(in)
			assert.Error(t, err, "input %q", in)
		}
	})

	t.Run("Invalid month", func(t *testing.T) {
		_, err := ParseDate("2025-13-01")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "month must be between 1 and 12")
	})

	t.Run("Day past end of month", func(t *testing.T) {
		_, err := ParseDate("2023-02-29")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "day must be between 1 and 28")
	})
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year     int
		month    int
		expected int
	}{
		{2024, 1, 31},
		{2024, 2, 29}, // leap year
		{2023, 2, 28},
		{2024, 4, 30},
		{2024, 11, 30},
		{2000, 2, 29},
		{1900, 2, 28},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysInMonth(tt.year, tt.month))
		})
	}
}

func TestDateCompare(t *testing.T) {
	a := Date{Year: 2025, Month: 7, Day: 1}
	b := Date{Year: 2025, Month: 7, Day: 4}
	c := Date{Year: 2026, Month: 1, Day: 1}

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, -1, b.Compare(c))
}

func TestCalculatePrice(t *testing.T) {
	t.Run("Three days", func(t *testing.T) {
		total, err := CalculatePrice("2025-07-01", "2025-07-04", 20000)
		require.NoError(t, err)
		assert.Equal(t, int64(60000), total)
	})

	t.Run("Same day is billed one day", func(t *testing.T) {
		total, err := CalculatePrice("2025-07-01", "2025-07-01", 20000)
		require.NoError(t, err)
		assert.Equal(t, int64(20000), total)
	})

	t.Run("Premium vehicle", func(t *testing.T) {
		total, err := CalculatePrice("2025-07-01", "2025-07-04", 45000)
		require.NoError(t, err)
		assert.Equal(t, int64(135000), total)
	})

	t.Run("Reversed range uses absolute difference", func(t *testing.T) {
		total, err := CalculatePrice("2025-07-04", "2025-07-01", 10000)
		require.NoError(t, err)
		assert.Equal(t, int64(30000), total)
	})

	t.Run("Across month and leap day", func(t *testing.T) {
		total, err := CalculatePrice("2024-02-27", "2024-03-02", 15000)
		require.NoError(t, err)
		assert.Equal(t, int64(4*15000), total)
	})

	t.Run("Zero price", func(t *testing.T) {
		total, err := CalculatePrice("2025-07-01", "2025-07-02", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("Negative price", func(t *testing.T) {
		_, err := CalculatePrice("2025-07-01", "2025-07-02", -1)
		assert.ErrorIs(t, err, ErrNegativePrice)
	})

	t.Run("Invalid start", func(t *testing.T) {
		_, err := CalculatePrice("tomorrow", "2025-07-02", 1000)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid start date")
	})
}

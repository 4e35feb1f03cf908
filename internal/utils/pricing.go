package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// DateLayout is the wire format of booking dates.
const DateLayout = "2006-01-02"

var ErrNegativePrice = errors.New("daily price must not be negative")

// Date represents a calendar date
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate converts a yyyy-mm-dd formatted string into a Date struct.
// Only the zero-padded form is accepted: no sign, no surrounding space,
// exactly four year digits.
func ParseDate(dateStr string) (Date, error) {
	if !isCanonicalDate(dateStr) {
		return Date{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd")
	}
	parts := []string{dateStr[0:4], dateStr[5:7], dateStr[8:10]}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, fmt.Errorf("invalid year: %v", err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, fmt.Errorf("invalid month: %v", err)
	}

	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, fmt.Errorf("invalid day: %v", err)
	}

	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("month must be between 1 and 12")
	}

	if day < 1 || day > DaysInMonth(year, month) {
		return Date{}, fmt.Errorf("day must be between 1 and %d", DaysInMonth(year, month))
	}

	return Date{Year: year, Month: month, Day: day}, nil
}

func isCanonicalDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch i {
		case 4, 7:
			if s[i] != '-' {
				return false
			}
		default:
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
	}
	return true
}

// DaysInMonth returns the number of days in a given month
func DaysInMonth(year, month int) int {
	if month == 2 {
		if (year%4 == 0 && year%100 != 0) || (year%400 == 0) {
			return 29
		}
		return 28
	}

	if month == 4 || month == 6 || month == 9 || month == 11 {
		return 30
	}

	return 31
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

// Compare returns -1, 0 or 1 when d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(d.Month - o.Month)
	default:
		return sign(d.Day - o.Day)
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// Today returns the current calendar date in loc.
func Today(loc *time.Location) Date {
	now := time.Now().In(loc)
	return Date{Year: now.Year(), Month: int(now.Month()), Day: now.Day()}
}

// RentalDays is the number of billable days between two dates:
// ceil(|end - start|) in days with a floor of one day.
func RentalDays(start, end Date) int64 {
	diff := math.Abs(end.Time().Sub(start.Time()).Hours() / 24)
	days := int64(math.Ceil(diff))
	if days <= 0 {
		return 1
	}
	return days
}

// CalculatePrice returns the total price of a rental. Same-day and reversed
// ranges are still billed; range validity is the availability check's job.
func CalculatePrice(startDate, endDate string, dailyPrice int64) (int64, error) {
	if dailyPrice < 0 {
		return 0, ErrNegativePrice
	}

	start, err := ParseDate(startDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date: %v", err)
	}

	end, err := ParseDate(endDate)
	if err != nil {
		return 0, fmt.Errorf("invalid end date: %v", err)
	}

	return RentalDays(start, end) * dailyPrice, nil
}

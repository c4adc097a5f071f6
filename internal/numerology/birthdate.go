package numerology

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BirthDate is a validated calendar date. Only its components matter, so it
// carries no time zone.
type BirthDate struct {
	Year  int
	Month int
	Day   int
}

// NewBirthDate validates the components against the calendar.
func NewBirthDate(year, month, day int) (BirthDate, error) {
	if year < 1 || year > 9999 {
		return BirthDate{}, invalidInput("birth date year is out of range")
	}
	if month < 1 || month > 12 {
		return BirthDate{}, invalidInput("birth date month is out of range")
	}
	if day < 1 || day > daysIn(time.Month(month), year) {
		return BirthDate{}, invalidInput("birth date day is out of range for the month")
	}
	return BirthDate{Year: year, Month: month, Day: day}, nil
}

// ParseBirthDate parses a strict YYYY-MM-DD date.
func ParseBirthDate(s string) (BirthDate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return BirthDate{}, invalidInput("birth date is required")
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return BirthDate{}, invalidInput("birth date must be formatted as YYYY-MM-DD")
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return BirthDate{}, invalidInput("birth date must be formatted as YYYY-MM-DD")
		}
		nums[i] = n
	}
	return NewBirthDate(nums[0], nums[1], nums[2])
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// String formats the date as YYYY-MM-DD.
func (d BirthDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Display formats the date as dd/mm/yyyy.
func (d BirthDate) Display() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}

// Time returns midnight UTC of the date.
func (d BirthDate) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

func (d BirthDate) IsZero() bool {
	return d == BirthDate{}
}

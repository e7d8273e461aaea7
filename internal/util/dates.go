package util

import (
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date format (use YYYY-MM-DD)")

// ParseDate accepts YYYY-MM-DD, or an RFC3339 timestamp whose calendar day is
// kept. The result is midnight UTC.
func ParseDate(s string) (datatypes.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return datatypes.Date{}, ErrInvalidDate
	}

	if t, err := time.Parse(DateLayout, s); err == nil {
		return datatypes.Date(t.UTC()), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.Date()
		return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)), nil
	}
	return datatypes.Date{}, ErrInvalidDate
}

func MustParseDate(s string) datatypes.Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}

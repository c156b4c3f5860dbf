package timeutil

import (
	"time"

	"gorm.io/datatypes"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a calendar date at UTC midnight.
func ParseDate(value string) (datatypes.Date, error) {
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}

// FormatDate renders d as YYYY-MM-DD in its own location. The zero date renders empty.
func FormatDate(d datatypes.Date) string {
	t := time.Time(d)
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

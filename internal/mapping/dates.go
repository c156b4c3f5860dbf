package mapping

import (
	"gorm.io/datatypes"

	"github.com/preston-bernstein/game-store-service/internal/timeutil"
)

// parseDate expects input that already passed validation; anything else maps to the zero date.
func parseDate(raw string) datatypes.Date {
	d, err := timeutil.ParseDate(raw)
	if err != nil {
		return datatypes.Date{}
	}
	return d
}

func formatDate(d datatypes.Date) string {
	return timeutil.FormatDate(d)
}

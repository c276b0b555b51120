package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/healthydesk/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// FormatDate renders the local calendar day of t.
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(constants.DateFormat)
}

// FormatClock renders the local wall clock time of t (HH:MM).
func FormatClock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(constants.TimeFormat)
}

// FormatMinutes renders a duration in seconds as whole minutes, e.g. "25min".
func FormatMinutes(seconds float64) string {
	return fmt.Sprintf("%dmin", int(seconds/60))
}

// FormatMilliliters renders a water amount, e.g. "1500ml".
func FormatMilliliters(ml float64) string {
	return fmt.Sprintf("%dml", int(ml))
}

// FormatPercent renders a progress ratio as a whole percentage. It is not clamped.
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%d%%", int(ratio*100))
}

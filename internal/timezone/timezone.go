package timezone

import "time"

const DefaultTimezone = "UTC"

const DateLayout = "2006-01-02"

var configured = DefaultTimezone

// Set changes the zone used by Now and Today. Invalid names are ignored.
func Set(tz string) bool {
	if !IsValid(tz) {
		return false
	}
	configured = tz
	return true
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.UTC
}

func Now() time.Time {
	return time.Now().In(Location(configured))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// Today is midnight of the current day in the configured zone.
func Today() time.Time {
	now := Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// ParseDate reads a YYYY-MM-DD calendar date in the configured zone.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, Location(configured))
}

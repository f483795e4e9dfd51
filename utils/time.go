package utils

import (
	"time"
)

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}

// StartOfUTCDay truncates t to midnight of its UTC calendar day
func StartOfUTCDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// UTCDayRange returns the half-open range [start-of-day, start-of-next-day) containing t
func UTCDayRange(t time.Time) (time.Time, time.Time) {
	start := StartOfUTCDay(t)
	return start, start.AddDate(0, 0, 1)
}

// regionalLocation is resolved once; a fixed +09:00 zone is used when tzdata is unavailable.
var regionalLocation = func() *time.Location {
	loc, err := time.LoadLocation(RegionalTimezone)
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}()

// RegionalLocation returns the display timezone used in customer-facing messages
func RegionalLocation() *time.Location {
	return regionalLocation
}

// ToRegional converts t to the regional display timezone
func ToRegional(t time.Time) time.Time {
	return t.In(regionalLocation)
}

// RegionalNow returns the current time in the regional display timezone
func RegionalNow() time.Time {
	return ToRegional(time.Now())
}

// FormatRegional formats t in the regional timezone, e.g. "2026-10-16 14:05"
func FormatRegional(t time.Time) string {
	return ToRegional(t).Format(RegionalDisplayLayout)
}

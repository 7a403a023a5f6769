package util

import "time"

// WindowStart returns the UTC start of a trailing N-day window ending now.
func WindowStart(days int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -days)
}

// PreviousWindowStart returns the UTC start of the identical-length
// window immediately preceding the trailing N-day window.
func PreviousWindowStart(days int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -2*days)
}

// FormatHourUTC renders an hour-of-day as "HH:00 UTC".
func FormatHourUTC(hour int) string {
	return time.Date(0, 1, 1, hour, 0, 0, 0, time.UTC).Format("15:04") + " UTC"
}

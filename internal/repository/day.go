package repository

import "time"

const dayLayout = "2006-01-02"

// UTCDay returns the calendar day (YYYY-MM-DD) of ts in UTC.
func UTCDay(ts time.Time) string {
	return ts.UTC().Format(dayLayout)
}

// DayStart returns 00:00:00 UTC of the calendar day containing ts.
func DayStart(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CompactDay formats the UTC day of ts as YYYYMMDD.
func CompactDay(ts time.Time) string {
	return ts.UTC().Format("20060102")
}

// MonthKey returns the UTC month of ts as YYYY-MM.
func MonthKey(ts time.Time) string {
	return ts.UTC().Format("2006-01")
}

// ParseDay parses a YYYY-MM-DD string as 00:00:00 UTC.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(dayLayout, s, time.UTC)
}

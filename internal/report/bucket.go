package report

import "time"

// BucketFunc maps an event timestamp to the label used to group it.
type BucketFunc func(time.Time) string

// DayBucket groups by UTC calendar date, "2024-03-18".
func DayBucket(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WeekBucket groups by the UTC date of the Sunday on or before the event.
func WeekBucket(t time.Time) string {
	u := t.UTC()
	start := u.AddDate(0, 0, -int(u.Weekday()))
	return start.Format("2006-01-02")
}

// MonthBucket groups by UTC year-month, "2024-03".
func MonthBucket(t time.Time) string {
	return t.UTC().Format("2006-01")
}

package tables

import (
	"time"

	"datalake/internal/schema"
)

// StartTime converts an epoch-millisecond value into the canonical
// start_time: milliseconds are divided down to whole seconds (truncating,
// not rounding) before the timestamp is constructed, so sub-second precision
// is deliberately dropped. All timestamps are UTC.
func StartTime(tsMillis int64) time.Time {
	return time.Unix(tsMillis/1000, 0).UTC()
}

// Decompose expands one epoch-millisecond value into a time-dimension row.
//
// Conventions:
//   - Day is the Sunday-first 1..7 day-of-week the upstream job used.
//   - Week is the ISO 8601 week number.
//   - Year is the calendar year (not the ISO week year), since it doubles as
//     a partition column.
//   - Weekday is a true Sunday-first 0..6 day-of-week. The upstream job
//     aliased this column to the week number; that was a copy-paste defect,
//     not intent, and is fixed here.
func Decompose(tsMillis int64) schema.TimeRow {
	t := StartTime(tsMillis)
	_, isoWeek := t.ISOWeek()
	return schema.TimeRow{
		StartTime: t,
		Hour:      int32(t.Hour()),
		Day:       int32(t.Weekday()) + 1,
		Week:      int32(isoWeek),
		Month:     int32(t.Month()),
		Year:      int32(t.Year()),
		Weekday:   int32(t.Weekday()),
	}
}

package tables

import (
	"bytes"
	"strings"

	"datalake/internal/schema"
)

// FilterPlays keeps only the activity records whose page is "NextSong"
// (case-insensitive) — the events that represent an actual song play.
// Navigation, auth, and other event pages are discarded, as are records with
// no page at all.
func FilterPlays(records []schema.ActivityRecord) []schema.ActivityRecord {
	out := records[:0:0]
	for _, r := range records {
		if r.Page != nil && strings.EqualFold(*r.Page, "nextsong") {
			out = append(out, r)
		}
	}
	return out
}

// BuildUsers projects the users dimension from play-filtered activity
// records with whole-row dedup. A user whose level changed between events
// yields one row per level; this historical-record behavior is intentional
// (no last-write-wins collapse is attempted).
func BuildUsers(plays []schema.ActivityRecord) []schema.UserRow {
	rows := make([]schema.UserRow, 0, len(plays))
	for _, r := range plays {
		rows = append(rows, schema.UserRow{
			UserID:    r.UserID,
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Gender:    r.Gender,
			Level:     r.Level,
		})
	}
	return distinct(rows, func(buf *bytes.Buffer, r schema.UserRow) {
		encLong(buf, r.UserID)
		encText(buf, r.FirstName)
		encText(buf, r.LastName)
		encText(buf, r.Gender)
		encText(buf, r.Level)
	})
}

// BuildTime derives the time dimension from play-filtered activity records:
// one row per distinct start_time, first-seen order, decomposed into the
// temporal columns. Distinctness is keyed on the truncated second, not the
// raw millisecond value, so two ts values inside the same second cannot
// produce colliding start_time rows. Records without a ts are skipped (there
// is no timestamp to key the row by).
func BuildTime(plays []schema.ActivityRecord) []schema.TimeRow {
	seen := make(map[int64]struct{}, len(plays))
	var rows []schema.TimeRow
	for _, r := range plays {
		if r.TS == nil {
			continue
		}
		sec := *r.TS / 1000
		if _, ok := seen[sec]; ok {
			continue
		}
		seen[sec] = struct{}{}
		rows = append(rows, Decompose(*r.TS))
	}
	return rows
}

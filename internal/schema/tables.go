package schema

import "time"

// The five output tables. Parquet column names and physical types follow the
// struct tags; pointer fields map to optional (nullable) columns. Partition
// columns (songs.year, songs.artist_id, time/songplays year+month) are kept
// in the file as well as in the directory path, so each part file is
// self-describing.

// SongRow is one row of the songs dimension.
type SongRow struct {
	SongID   *string  `parquet:"song_id,optional"`
	Title    *string  `parquet:"title,optional"`
	ArtistID *string  `parquet:"artist_id,optional"`
	Year     *int64   `parquet:"year,optional"`
	Duration *float64 `parquet:"duration,optional"`
}

// ArtistRow is one row of the artists dimension.
type ArtistRow struct {
	ArtistID  *string  `parquet:"artist_id,optional"`
	Name      *string  `parquet:"name,optional"`
	Location  *string  `parquet:"location,optional"`
	Latitude  *float64 `parquet:"latitude,optional"`
	Longitude *float64 `parquet:"longitude,optional"`
}

// UserRow is one row of the users dimension. A user whose level changed
// across events contributes one row per distinct (user_id, ..., level)
// combination; see tables.BuildUsers.
type UserRow struct {
	UserID    *int64  `parquet:"user_id,optional"`
	FirstName *string `parquet:"first_name,optional"`
	LastName  *string `parquet:"last_name,optional"`
	Gender    *string `parquet:"gender,optional"`
	Level     *string `parquet:"level,optional"`
}

// TimeRow is one row of the time dimension, keyed by StartTime.
//
// Day carries the 1..7 Sunday-first day-of-week convention of the upstream
// job; Weekday is the 0..6 Sunday-first day-of-week (time.Weekday values).
// Week is the ISO 8601 week number.
type TimeRow struct {
	StartTime time.Time `parquet:"start_time,timestamp(millisecond)"`
	Hour      int32     `parquet:"hour"`
	Day       int32     `parquet:"day"`
	Week      int32     `parquet:"week"`
	Month     int32     `parquet:"month"`
	Year      int32     `parquet:"year"`
	Weekday   int32     `parquet:"weekday"`
}

// SongplayRow is one row of the songplays fact table. Year and Month are
// derived from StartTime and double as the partition columns.
type SongplayRow struct {
	SongplayID int64     `parquet:"songplay_id"`
	StartTime  time.Time `parquet:"start_time,timestamp(millisecond)"`
	UserID     *int64    `parquet:"user_id,optional"`
	Level      *string   `parquet:"level,optional"`
	SongID     *string   `parquet:"song_id,optional"`
	ArtistID   *string   `parquet:"artist_id,optional"`
	SessionID  *int64    `parquet:"session_id,optional"`
	Location   *string   `parquet:"location,optional"`
	UserAgent  *string   `parquet:"user_agent,optional"`
	Year       int32     `parquet:"year"`
	Month      int32     `parquet:"month"`
}

package tables

import (
	"strconv"

	"datalake/internal/schema"
	"datalake/internal/sink"
)

// Partition-column declarations for the tables that have them. artists and
// users are written unpartitioned.

// SongPartitions partitions songs by (year, artist_id).
func SongPartitions(r schema.SongRow) []sink.Partition {
	return []sink.Partition{
		{Column: "year", Value: longPartition(r.Year)},
		{Column: "artist_id", Value: textPartition(r.ArtistID)},
	}
}

// TimePartitions partitions the time dimension by (year, month).
func TimePartitions(r schema.TimeRow) []sink.Partition {
	return []sink.Partition{
		{Column: "year", Value: strconv.Itoa(int(r.Year))},
		{Column: "month", Value: strconv.Itoa(int(r.Month))},
	}
}

// SongplayPartitions partitions the fact table by (year, month); both values
// are derived from the row's own start_time during reconciliation.
func SongplayPartitions(r schema.SongplayRow) []sink.Partition {
	return []sink.Partition{
		{Column: "year", Value: strconv.Itoa(int(r.Year))},
		{Column: "month", Value: strconv.Itoa(int(r.Month))},
	}
}

func longPartition(v *int64) string {
	if v == nil {
		return sink.HiveDefaultPartition
	}
	return strconv.FormatInt(*v, 10)
}

func textPartition(v *string) string {
	if v == nil || *v == "" {
		return sink.HiveDefaultPartition
	}
	return *v
}

package tables

import (
	"bytes"

	"datalake/internal/schema"
)

// BuildSongs projects the songs dimension from raw catalog records and
// removes whole-row duplicates.
func BuildSongs(records []schema.CatalogRecord) []schema.SongRow {
	rows := make([]schema.SongRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, schema.SongRow{
			SongID:   r.SongID,
			Title:    r.Title,
			ArtistID: r.ArtistID,
			Year:     r.Year,
			Duration: r.Duration,
		})
	}
	return distinct(rows, func(buf *bytes.Buffer, r schema.SongRow) {
		encText(buf, r.SongID)
		encText(buf, r.Title)
		encText(buf, r.ArtistID)
		encLong(buf, r.Year)
		encDouble(buf, r.Duration)
	})
}

// BuildArtists projects the artists dimension from raw catalog records and
// removes whole-row duplicates.
func BuildArtists(records []schema.CatalogRecord) []schema.ArtistRow {
	rows := make([]schema.ArtistRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, schema.ArtistRow{
			ArtistID:  r.ArtistID,
			Name:      r.ArtistName,
			Location:  r.ArtistLocation,
			Latitude:  r.ArtistLatitude,
			Longitude: r.ArtistLongitude,
		})
	}
	return distinct(rows, func(buf *bytes.Buffer, r schema.ArtistRow) {
		encText(buf, r.ArtistID)
		encText(buf, r.Name)
		encText(buf, r.Location)
		encDouble(buf, r.Latitude)
		encDouble(buf, r.Longitude)
	})
}

package schema

// CatalogRecord is one raw catalog metadata entry, positionally decoded from
// the Catalog() contract. Every field is nullable: a value that is absent or
// fails coercion is nil, and a line that fails to decode at all yields a
// record with every field nil.
type CatalogRecord struct {
	NumSongs        *int64
	ArtistID        *string
	ArtistLatitude  *float64
	ArtistLongitude *float64
	ArtistLocation  *string
	ArtistName      *string
	SongID          *string
	Title           *string
	Duration        *float64
	Year            *int64
}

// CatalogFromRow builds a CatalogRecord from a positional row aligned with
// Catalog().Fields. Values must already be coerced (string/int64/float64/nil).
func CatalogFromRow(v []any) CatalogRecord {
	return CatalogRecord{
		NumSongs:        longAt(v, 0),
		ArtistID:        textAt(v, 1),
		ArtistLatitude:  doubleAt(v, 2),
		ArtistLongitude: doubleAt(v, 3),
		ArtistLocation:  textAt(v, 4),
		ArtistName:      textAt(v, 5),
		SongID:          textAt(v, 6),
		Title:           textAt(v, 7),
		Duration:        doubleAt(v, 8),
		Year:            longAt(v, 9),
	}
}

// ActivityRecord is one raw user-activity log event, positionally decoded
// from the Activity() contract. Nullability rules match CatalogRecord.
type ActivityRecord struct {
	Artist        *string
	Auth          *string
	FirstName     *string
	Gender        *string
	ItemInSession *int64
	LastName      *string
	Length        *float64
	Level         *string
	Location      *string
	Method        *string
	Page          *string
	Registration  *string
	SessionID     *int64
	Song          *string
	Status        *int64
	TS            *int64
	UserAgent     *string
	UserID        *int64
}

// ActivityFromRow builds an ActivityRecord from a positional row aligned with
// Activity().Fields.
func ActivityFromRow(v []any) ActivityRecord {
	return ActivityRecord{
		Artist:        textAt(v, 0),
		Auth:          textAt(v, 1),
		FirstName:     textAt(v, 2),
		Gender:        textAt(v, 3),
		ItemInSession: longAt(v, 4),
		LastName:      textAt(v, 5),
		Length:        doubleAt(v, 6),
		Level:         textAt(v, 7),
		Location:      textAt(v, 8),
		Method:        textAt(v, 9),
		Page:          textAt(v, 10),
		Registration:  textAt(v, 11),
		SessionID:     longAt(v, 12),
		Song:          textAt(v, 13),
		Status:        longAt(v, 14),
		TS:            longAt(v, 15),
		UserAgent:     textAt(v, 16),
		UserID:        longAt(v, 17),
	}
}

func textAt(v []any, i int) *string {
	if i >= len(v) {
		return nil
	}
	if s, ok := v[i].(string); ok {
		return &s
	}
	return nil
}

func longAt(v []any, i int) *int64 {
	if i >= len(v) {
		return nil
	}
	if n, ok := v[i].(int64); ok {
		return &n
	}
	return nil
}

func doubleAt(v []any, i int) *float64 {
	if i >= len(v) {
		return nil
	}
	if f, ok := v[i].(float64); ok {
		return &f
	}
	return nil
}

// Package schema defines the fixed field contracts for the two raw NDJSON
// sources (song catalog metadata and user-activity logs) and the typed row
// structs for the five output tables of the star schema.
//
// Both contracts are declared explicitly and enforced on read. The activity
// source in particular is never left to engine type inference: every field has
// a declared type, including userId (long) and userAgent (text), which are the
// usual inference footguns in this dataset.
package schema

// FieldType enumerates the value types a contract field can declare.
type FieldType string

const (
	TypeText   FieldType = "text"
	TypeLong   FieldType = "long"   // int64
	TypeDouble FieldType = "double" // float64
)

// Field declares one column of a raw source: its name as it appears in the
// JSON objects and the type its values are coerced to.
type Field struct {
	Name string    `json:"name"`
	Type FieldType `json:"type"`
}

// Contract is the ordered field list for one raw source. Parsed rows are
// positional: row.V[i] corresponds to Fields[i].
type Contract struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Columns returns the field names in declaration order.
func (c Contract) Columns() []string {
	cols := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		cols[i] = f.Name
	}
	return cols
}

// Catalog returns the contract for song catalog metadata records.
func Catalog() Contract {
	return Contract{
		Name: "catalog",
		Fields: []Field{
			{Name: "num_songs", Type: TypeLong},
			{Name: "artist_id", Type: TypeText},
			{Name: "artist_latitude", Type: TypeDouble},
			{Name: "artist_longitude", Type: TypeDouble},
			{Name: "artist_location", Type: TypeText},
			{Name: "artist_name", Type: TypeText},
			{Name: "song_id", Type: TypeText},
			{Name: "title", Type: TypeText},
			{Name: "duration", Type: TypeDouble},
			{Name: "year", Type: TypeLong},
		},
	}
}

// Activity returns the contract for user-activity log records.
//
// ts is declared long (epoch milliseconds); int32 would overflow for any
// timestamp after 2004-01-10.
func Activity() Contract {
	return Contract{
		Name: "activity",
		Fields: []Field{
			{Name: "artist", Type: TypeText},
			{Name: "auth", Type: TypeText},
			{Name: "firstName", Type: TypeText},
			{Name: "gender", Type: TypeText},
			{Name: "itemInSession", Type: TypeLong},
			{Name: "lastName", Type: TypeText},
			{Name: "length", Type: TypeDouble},
			{Name: "level", Type: TypeText},
			{Name: "location", Type: TypeText},
			{Name: "method", Type: TypeText},
			{Name: "page", Type: TypeText},
			{Name: "registration", Type: TypeText},
			{Name: "sessionId", Type: TypeLong},
			{Name: "song", Type: TypeText},
			{Name: "status", Type: TypeLong},
			{Name: "ts", Type: TypeLong},
			{Name: "userAgent", Type: TypeText},
			{Name: "userId", Type: TypeLong},
		},
	}
}

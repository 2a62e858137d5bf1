package jsonl

import (
	"context"
	"errors"
	"strings"
	"testing"

	"datalake/internal/schema"
)

func drainRows(ch chan *Row) []*Row {
	var out []*Row
	for {
		select {
		case r := <-ch:
			out = append(out, r)
		default:
			return out
		}
	}
}

/*
TestStream_NDJSON verifies the happy path over line-delimited objects:

  - one *Row per line, Line is a 1-based counter,
  - V aligns positionally with the contract fields,
  - values carry their declared types (string/int64/float64),
  - onRowErr is not invoked.
*/
func TestStream_NDJSON(t *testing.T) {
	const data = `{"artist_id":"A1","artist_name":"Elvis Presley","duration":136.0,"year":1956}
{"artist_id":"A2","artist_name":"Nina Simone","duration":201.5,"year":1964}`

	out := make(chan *Row, 4)
	var rowErrs []error

	err := Stream(context.Background(), strings.NewReader(data), schema.Catalog(), out,
		func(_ int, err error) { rowErrs = append(rowErrs, err) })
	if err != nil {
		t.Fatalf("Stream returned error: %v", err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("onRowErr called %d times; want 0", len(rowErrs))
	}

	rows := drainRows(out)
	if got, want := len(rows), 2; got != want {
		t.Fatalf("got %d rows; want %d", got, want)
	}
	if rows[0].Line != 1 || rows[1].Line != 2 {
		t.Fatalf("unexpected line numbers: got [%d,%d], want [1,2]", rows[0].Line, rows[1].Line)
	}

	// artist_id is field 1, duration field 8, year field 9 in the contract.
	if got, ok := rows[0].V[1].(string); !ok || got != "A1" {
		t.Fatalf("rows[0].V[1] = %#v (type %T); want \"A1\"", rows[0].V[1], rows[0].V[1])
	}
	if got, ok := rows[0].V[8].(float64); !ok || got != 136.0 {
		t.Fatalf("rows[0].V[8] = %#v (type %T); want float64(136)", rows[0].V[8], rows[0].V[8])
	}
	if got, ok := rows[1].V[9].(int64); !ok || got != 1964 {
		t.Fatalf("rows[1].V[9] = %#v (type %T); want int64(1964)", rows[1].V[9], rows[1].V[9])
	}
}

/*
TestStream_FieldMismatchNulls verifies the permissive row policy: a field
whose value cannot coerce to the declared type becomes nil, the rest of the
row survives, and the mismatch is reported through onRowErr.
*/
func TestStream_FieldMismatchNulls(t *testing.T) {
	const data = `{"artist_id":"A1","year":"not a year","duration":12.5}`

	out := make(chan *Row, 2)
	var rowErrs []error

	err := Stream(context.Background(), strings.NewReader(data), schema.Catalog(), out,
		func(_ int, err error) { rowErrs = append(rowErrs, err) })
	if err != nil {
		t.Fatalf("Stream returned error: %v", err)
	}

	rows := drainRows(out)
	if len(rows) != 1 {
		t.Fatalf("got %d rows; want 1", len(rows))
	}
	if rows[0].V[9] != nil {
		t.Fatalf("year = %#v; want nil after failed coercion", rows[0].V[9])
	}
	if got, ok := rows[0].V[1].(string); !ok || got != "A1" {
		t.Fatalf("artist_id = %#v; want \"A1\" (row must survive)", rows[0].V[1])
	}
	if len(rowErrs) != 1 {
		t.Fatalf("onRowErr called %d times; want 1", len(rowErrs))
	}
}

/*
TestStream_MalformedLine verifies that undecodable input yields a single
all-null row (reported via onRowErr) instead of a hard failure.
*/
func TestStream_MalformedLine(t *testing.T) {
	const data = `{"artist_id":"A1"}
{not json at all`

	out := make(chan *Row, 4)
	var rowErrs []error

	err := Stream(context.Background(), strings.NewReader(data), schema.Catalog(), out,
		func(_ int, err error) { rowErrs = append(rowErrs, err) })
	if err != nil {
		t.Fatalf("Stream returned error: %v", err)
	}

	rows := drainRows(out)
	if len(rows) != 2 {
		t.Fatalf("got %d rows; want 2 (good row + null row)", len(rows))
	}
	last := rows[len(rows)-1]
	for i, v := range last.V {
		if v != nil {
			t.Fatalf("null row field %d = %#v; want nil", i, v)
		}
	}
	if len(rowErrs) != 1 {
		t.Fatalf("onRowErr called %d times; want 1", len(rowErrs))
	}
}

/*
TestStream_NumericStrings verifies the coercions the activity source relies
on: numeric strings parse into long fields (userId arrives as "26"), empty
strings coerce to null instead of failing, and numbers render into text
fields (registration arrives as an epoch number).
*/
func TestStream_NumericStrings(t *testing.T) {
	const data = `{"userId":"26","sessionId":583,"registration":1540344794796,"ts":1541105830796,"page":"NextSong"}
{"userId":"","ts":1541105830796}`

	out := make(chan *Row, 4)
	err := Stream(context.Background(), strings.NewReader(data), schema.Activity(), out, nil)
	if err != nil {
		t.Fatalf("Stream returned error: %v", err)
	}

	rows := drainRows(out)
	if len(rows) != 2 {
		t.Fatalf("got %d rows; want 2", len(rows))
	}

	// userId is field 17, registration field 11, ts field 15.
	if got, ok := rows[0].V[17].(int64); !ok || got != 26 {
		t.Fatalf("userId = %#v (type %T); want int64(26)", rows[0].V[17], rows[0].V[17])
	}
	if got, ok := rows[0].V[11].(string); !ok || got != "1540344794796" {
		t.Fatalf("registration = %#v; want \"1540344794796\"", rows[0].V[11])
	}
	if got, ok := rows[0].V[15].(int64); !ok || got != 1541105830796 {
		t.Fatalf("ts = %#v; want int64(1541105830796) with no precision loss", rows[0].V[15])
	}
	if rows[1].V[17] != nil {
		t.Fatalf("empty userId = %#v; want nil", rows[1].V[17])
	}
}

/*
TestStream_EmptyInput verifies that an empty reader produces no rows and no
error.
*/
func TestStream_EmptyInput(t *testing.T) {
	out := make(chan *Row, 1)
	err := Stream(context.Background(), strings.NewReader(""), schema.Catalog(), out, nil)
	if err != nil {
		t.Fatalf("Stream returned error: %v", err)
	}
	if rows := drainRows(out); len(rows) != 0 {
		t.Fatalf("got %d rows from empty input; want 0", len(rows))
	}
}

// brokenReader yields its data, then fails with err instead of io.EOF.
type brokenReader struct {
	data []byte
	err  error
}

func (r *brokenReader) Read(p []byte) (int, error) {
	if len(r.data) > 0 {
		n := copy(p, r.data)
		r.data = r.data[n:]
		return n, nil
	}
	return 0, r.err
}

/*
TestStream_ReaderFailure verifies that a mid-read failure of the underlying
reader is fatal: Stream returns the reader's error instead of treating it as
one more malformed line. Rows decoded before the failure still flow.
*/
func TestStream_ReaderFailure(t *testing.T) {
	diskErr := errors.New("device gone")
	r := &brokenReader{
		data: []byte(`{"artist_id":"A1","artist_name":"Elvis Presley"}` + "\n"),
		err:  diskErr,
	}

	out := make(chan *Row, 4)
	var rowErrs []error
	err := Stream(context.Background(), r, schema.Catalog(), out,
		func(_ int, err error) { rowErrs = append(rowErrs, err) })
	if err == nil {
		t.Fatalf("Stream returned nil for a failing reader; want error")
	}
	if !errors.Is(err, diskErr) {
		t.Fatalf("Stream error = %v; want wrapped %v", err, diskErr)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("reader failure reported as %d row errors; want 0", len(rowErrs))
	}
	rows := drainRows(out)
	if len(rows) != 1 {
		t.Fatalf("got %d rows before the failure; want 1", len(rows))
	}
	if got, ok := rows[0].V[1].(string); !ok || got != "A1" {
		t.Fatalf("rows[0].V[1] = %#v; want \"A1\"", rows[0].V[1])
	}
}

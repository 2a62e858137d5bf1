// Package jsonl parses the raw NDJSON sources against a declared schema
// contract and streams positional rows to the rest of the pipeline.
//
// Flow:
//
//  1. Decode JSON objects from an io.Reader with encoding/json.Decoder, so
//     both one-object-per-line files and multi-line pretty-printed objects
//     work without buffering whole files.
//  2. For each object, coerce every contract field to its declared type.
//     Coercion is permissive at row level: a field that is absent, null, or
//     fails to coerce becomes nil, and the row still flows. A line that is
//     not valid JSON at all yields a single all-null row. Neither case aborts
//     the read.
//  3. Emit a *Row whose V slice is ordered according to contract.Fields, so
//     downstream stages index positionally instead of doing per-row map
//     lookups.
package jsonl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"datalake/internal/schema"
)

// Row is one parsed record. V is positional: V[i] holds the coerced value of
// contract field i, typed string, int64, or float64, or nil when null.
type Row struct {
	Line int
	V    []any
}

// Stream decodes JSON objects from r and sends one *Row per object to out.
//
// onRowErr, when non-nil, is invoked for every field-level coercion failure
// and for a terminal decode failure; it must not block. Stream returns only
// on context cancellation or a (non-row) I/O failure; schema mismatches are
// never fatal.
func Stream(
	ctx context.Context,
	r io.Reader,
	contract schema.Contract,
	out chan<- *Row,
	onRowErr func(line int, err error),
) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	line := 0
	emit := func(row *Row) error {
		select {
		case out <- row:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	for {
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if !malformedInput(err) {
				// The reader itself failed mid-file. That is a storage
				// fault, not bad content; it must abort the read.
				return fmt.Errorf("read: %w", err)
			}
			// The decoder cannot resync after malformed input. Report it,
			// surface an all-null row for the bad line, and stop this file.
			line++
			if onRowErr != nil {
				onRowErr(line, fmt.Errorf("decode: %w", err))
			}
			return emit(&Row{Line: line, V: make([]any, len(contract.Fields))})
		}
		line++

		v := make([]any, len(contract.Fields))
		for i, f := range contract.Fields {
			raw, ok := obj[f.Name]
			if !ok || raw == nil {
				continue
			}
			coerced, err := coerce(raw, f.Type)
			if err != nil {
				if onRowErr != nil {
					onRowErr(line, fmt.Errorf("field %s: %w", f.Name, err))
				}
				continue // null for this field, row survives
			}
			v[i] = coerced
		}
		if err := emit(&Row{Line: line, V: v}); err != nil {
			return err
		}
	}
}

// malformedInput reports whether a Decode error came from the content itself
// (bad syntax, wrong shape, truncated file) rather than from the underlying
// reader failing.
func malformedInput(err error) bool {
	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	return errors.As(err, &syn) || errors.As(err, &typ) || errors.Is(err, io.ErrUnexpectedEOF)
}

// coerce converts a decoded JSON value to the declared field type. Numbers
// arrive as json.Number (UseNumber), so integer precision is preserved for
// epoch-millisecond values. Numeric strings are accepted for long/double
// fields because the activity source stringifies identifiers; an empty
// string coerces to null rather than failing.
func coerce(raw any, t schema.FieldType) (any, error) {
	switch t {
	case schema.TypeText:
		switch v := raw.(type) {
		case string:
			return v, nil
		case json.Number:
			return v.String(), nil
		}
	case schema.TypeLong:
		switch v := raw.(type) {
		case json.Number:
			return numberToLong(v)
		case string:
			if strings.TrimSpace(v) == "" {
				return nil, nil
			}
			return numberToLong(json.Number(strings.TrimSpace(v)))
		}
	case schema.TypeDouble:
		switch v := raw.(type) {
		case json.Number:
			return v.Float64()
		case string:
			if strings.TrimSpace(v) == "" {
				return nil, nil
			}
			return strconv.ParseFloat(strings.TrimSpace(v), 64)
		}
	}
	return nil, fmt.Errorf("cannot coerce %T to %s", raw, t)
}

// numberToLong parses n as int64, truncating a fractional representation the
// way an integer cast would.
func numberToLong(n json.Number) (any, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("cannot coerce %q to long", n.String())
	}
	return int64(f), nil
}

// Package tables derives the star-schema tables from raw catalog and
// activity records: the songs/artists/users/time dimensions and the
// songplays fact table.
package tables

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/zeebo/xxh3"
)

// distinct removes whole-row duplicates from rows, preserving first-seen
// order. Rows are identical only when every column matches, null included;
// key-based dedup is deliberately not applied (two rows sharing a key but
// differing in any other column both survive).
//
// Rows are compared through a stable byte encoding produced by enc. The
// xxh3 hash of the encoding buckets candidates; full byte equality decides
// within a bucket, so hash collisions cannot merge distinct rows.
func distinct[T any](rows []T, enc func(*bytes.Buffer, T)) []T {
	type bucket struct {
		encodings [][]byte
	}
	seen := make(map[uint64]*bucket, len(rows))
	out := rows[:0:0]

	var buf bytes.Buffer
	for _, r := range rows {
		buf.Reset()
		enc(&buf, r)
		key := xxh3.Hash(buf.Bytes())

		b, ok := seen[key]
		if !ok {
			b = &bucket{}
			seen[key] = b
		}
		dup := false
		for _, e := range b.encodings {
			if bytes.Equal(e, buf.Bytes()) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		b.encodings = append(b.encodings, append([]byte(nil), buf.Bytes()...))
		out = append(out, r)
	}
	return out
}

// Field encoders. Each writes a tag byte distinguishing null from a present
// value, so nil and the zero value never encode identically, followed by a
// fixed-width or length-prefixed payload so adjacent fields cannot alias.

func encText(buf *bytes.Buffer, s *string) {
	if s == nil {
		buf.WriteByte(0)
		return
	}
	buf.WriteByte(1)
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(*s)))
	buf.Write(n[:])
	buf.WriteString(*s)
}

func encLong(buf *bytes.Buffer, v *int64) {
	if v == nil {
		buf.WriteByte(0)
		return
	}
	buf.WriteByte(1)
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(*v))
	buf.Write(n[:])
}

func encDouble(buf *bytes.Buffer, v *float64) {
	if v == nil {
		buf.WriteByte(0)
		return
	}
	buf.WriteByte(1)
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], math.Float64bits(*v))
	buf.Write(n[:])
}

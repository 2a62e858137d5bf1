// Package sink persists tables as partitioned Parquet directory trees.
//
// Layout follows the Hive/Spark directory convention the downstream readers
// expect: one subdirectory per distinct partition-value combination
// (year=1956/artist_id=A1/...), Snappy-compressed part files named
// part-NNNNN-<uuid>.snappy.parquet, and an empty _SUCCESS marker at the
// table root once every partition has been written. A write always fully
// overwrites the destination path; nothing is merged.
package sink

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"golang.org/x/sync/errgroup"

	"datalake/internal/source"
)

// Partition is one partition-column value for a row, already rendered to its
// directory form.
type Partition struct {
	Column string
	Value  string
}

// HiveDefaultPartition is the directory name used for a null partition
// value, matching what Spark writes.
const HiveDefaultPartition = "__HIVE_DEFAULT_PARTITION__"

// concurrent partition-file writes per table.
const writeWorkers = 4

// WriteTable persists rows under dir on the backend, grouped by the
// partition values produced by partitionBy. Passing a nil partitionBy writes
// the whole table into a single part file at the table root. An empty table
// still produces one (empty, schema-bearing) part file plus the _SUCCESS
// marker, so downstream readers find a valid table either way.
//
// The destination is removed before writing; prior contents at dir are
// always discarded.
func WriteTable[T any](
	ctx context.Context,
	be source.Backend,
	dir string,
	rows []T,
	partitionBy func(T) []Partition,
) (int64, error) {
	if err := be.RemoveAll(dir); err != nil {
		return 0, fmt.Errorf("overwrite %s: %w", dir, err)
	}

	groups := make(map[string][]T)
	if partitionBy == nil {
		groups[""] = rows
	} else {
		for _, r := range rows {
			var sub string
			for _, p := range partitionBy(r) {
				sub = path.Join(sub, p.Column+"="+escapePartitionValue(p.Value))
			}
			groups[sub] = append(groups[sub], r)
		}
		if len(groups) == 0 {
			groups[""] = nil
		}
	}

	// Deterministic part numbering across runs.
	subs := make([]string, 0, len(groups))
	for sub := range groups {
		subs = append(subs, sub)
	}
	sort.Strings(subs)

	// The group's derived context is canceled once Wait returns, success or
	// not; the marker below must be created with the caller's context.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(writeWorkers)
	for i, sub := range subs {
		name := path.Join(dir, sub, fmt.Sprintf("part-%05d-%s.snappy.parquet", i, uuid.NewString()))
		group := groups[sub]
		g.Go(func() error {
			return writePart(gctx, be, name, group)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	marker, err := be.Create(ctx, path.Join(dir, "_SUCCESS"))
	if err != nil {
		return 0, err
	}
	if err := marker.Close(); err != nil {
		return 0, fmt.Errorf("finalize %s: %w", dir, err)
	}
	return int64(len(rows)), nil
}

// Characters Hive refuses in a partition directory name. A value containing
// one of these (an artist_id with a "/", say) would otherwise change the
// directory depth or the col=value split.
const unsafePartitionChars = "\"#%'*/:=?\\{[]^"

// escapePartitionValue percent-escapes the characters Hive escapes in
// partition paths, so any value round-trips as a single directory name.
func escapePartitionValue(v string) string {
	if !strings.ContainsAny(v, unsafePartitionChars) {
		return v
	}
	var b strings.Builder
	b.Grow(len(v) + 4)
	for i := 0; i < len(v); i++ {
		c := v[i]
		if strings.IndexByte(unsafePartitionChars, c) >= 0 {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func writePart[T any](ctx context.Context, be source.Backend, name string, rows []T) error {
	wc, err := be.Create(ctx, name)
	if err != nil {
		return err
	}
	pw := parquet.NewGenericWriter[T](wc, parquet.Compression(&parquet.Snappy))
	if len(rows) > 0 {
		if _, err := pw.Write(rows); err != nil {
			wc.Close()
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	if err := pw.Close(); err != nil {
		wc.Close()
		return fmt.Errorf("close %s: %w", name, err)
	}
	return wc.Close()
}

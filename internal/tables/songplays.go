package tables

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"golang.org/x/sync/errgroup"

	"datalake/internal/schema"
)

// Reconcile assembles the songplays fact table.
//
// Join order, per the upstream job:
//
//  1. Inner hash-join play-filtered activity records to raw catalog records
//     on exact, case-sensitive (activity.artist == catalog.artist_name AND
//     activity.song == catalog.title). A play matching several catalog
//     entries yields one fact row per match; a play matching none is dropped
//     silently.
//  2. Derive start_time from ts with the same truncating rule the time
//     dimension uses, then inner-join to the time table on start_time to
//     attach month and year. The time table must have been built from the
//     same filtered activity set, otherwise plays drop here.
//  3. Assign each surviving row a surrogate songplay_id: unique within the
//     run, no contiguity or cross-run determinism promised.
//
// IDs come from per-worker snowflake nodes: the worker index occupies the
// node bits and a per-worker sequence fills the low bits, so uniqueness
// needs no coordination between workers. Zero matches is a valid outcome
// and returns an empty, non-nil slice.
func Reconcile(
	ctx context.Context,
	plays []schema.ActivityRecord,
	catalog []schema.CatalogRecord,
	timeTable []schema.TimeRow,
	workers int,
) ([]schema.SongplayRow, error) {
	if workers < 1 {
		workers = 1
	}

	// Build-side indexes. The catalog index keys on the exact artist/title
	// pair; \x1f keeps "ab"+"c" and "a"+"bc" from colliding.
	catalogIdx := make(map[string][]int, len(catalog))
	for i, c := range catalog {
		if c.ArtistName == nil || c.Title == nil {
			continue
		}
		k := *c.ArtistName + "\x1f" + *c.Title
		catalogIdx[k] = append(catalogIdx[k], i)
	}
	timeIdx := make(map[int64]schema.TimeRow, len(timeTable))
	for _, t := range timeTable {
		timeIdx[t.StartTime.Unix()] = t
	}

	// Probe side is chunked across workers; each worker owns a snowflake
	// node and an output slice, so no shared mutable state.
	chunks := chunkRecords(plays, workers)
	results := make([][]schema.SongplayRow, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	for w, chunk := range chunks {
		w, chunk := w, chunk
		node, err := snowflake.NewNode(int64(w))
		if err != nil {
			return nil, fmt.Errorf("id node %d: %w", w, err)
		}
		g.Go(func() error {
			var out []schema.SongplayRow
			for _, p := range chunk {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				if p.Artist == nil || p.Song == nil || p.TS == nil {
					continue
				}
				matches := catalogIdx[*p.Artist+"\x1f"+*p.Song]
				if len(matches) == 0 {
					continue
				}
				start := StartTime(*p.TS)
				tr, ok := timeIdx[start.Unix()]
				if !ok {
					continue
				}
				for _, ci := range matches {
					c := catalog[ci]
					out = append(out, schema.SongplayRow{
						SongplayID: node.Generate().Int64(),
						StartTime:  start,
						UserID:     p.UserID,
						Level:      p.Level,
						SongID:     c.SongID,
						ArtistID:   c.ArtistID,
						SessionID:  p.SessionID,
						Location:   p.Location,
						UserAgent:  p.UserAgent,
						Year:       tr.Year,
						Month:      tr.Month,
					})
				}
			}
			results[w] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]schema.SongplayRow, 0)
	for _, rs := range results {
		merged = append(merged, rs...)
	}
	return merged, nil
}

// chunkRecords splits records into at most n contiguous, non-empty chunks.
func chunkRecords(records []schema.ActivityRecord, n int) [][]schema.ActivityRecord {
	if len(records) == 0 {
		return nil
	}
	if n > len(records) {
		n = len(records)
	}
	size := (len(records) + n - 1) / n
	var chunks [][]schema.ActivityRecord
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[start:end])
	}
	return chunks
}

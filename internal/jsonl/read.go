package jsonl

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"datalake/internal/schema"
	"datalake/internal/source"
)

// ReadGlob lists every file matching pattern on the backend, parses each
// against the contract with up to workers concurrent readers, and returns the
// typed records in a deterministic order (input rows sorted by file, then
// line). fromRow converts one positional row into the caller's record type.
//
// onRowErr receives per-row schema mismatches, tagged with the file name; it
// may be called from multiple goroutines. A matching-zero-files glob returns
// an empty slice, not an error. Any file that cannot be opened fails the
// whole read; that is a storage failure, not a row failure.
func ReadGlob[T any](
	ctx context.Context,
	be source.Backend,
	pattern string,
	contract schema.Contract,
	workers int,
	fromRow func([]any) T,
	onRowErr func(file string, line int, err error),
) ([]T, error) {
	files, err := be.Glob(pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	if workers < 1 {
		workers = 1
	}

	perFile := make([][]T, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			rc, err := be.Open(ctx, name)
			if err != nil {
				return err
			}
			defer rc.Close()

			rows := make(chan *Row, 64)
			done := make(chan struct{})
			go func() {
				defer close(done)
				for r := range rows {
					perFile[i] = append(perFile[i], fromRow(r.V))
				}
			}()

			streamErr := Stream(ctx, rc, contract, rows, func(line int, err error) {
				if onRowErr != nil {
					onRowErr(name, line, err)
				}
			})
			close(rows)
			<-done
			if streamErr != nil {
				return fmt.Errorf("read %s: %w", name, streamErr)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []T
	for _, recs := range perFile {
		out = append(out, recs...)
	}
	return out, nil
}

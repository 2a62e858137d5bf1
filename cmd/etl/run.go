// This file wires the two pipelines end-to-end. It keeps the CLI layer
// thin: reading goes through the source backend and the jsonl parser, table
// derivation lives in internal/tables, and persistence in internal/sink.
package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"datalake/internal/config"
	"datalake/internal/jsonl"
	"datalake/internal/metrics"
	"datalake/internal/schema"
	"datalake/internal/sink"
	"datalake/internal/source"
	"datalake/internal/tables"
)

const (
	catalogGlob  = "song_data/*/*/*/*.json"
	activityGlob = "log_data/*/*/*.json"
	errSamples   = 3
)

// run executes the whole job: the catalog pipeline (songs, artists), then
// the activity pipeline (users, time, songplays). Each table write fully
// overwrites its destination, so a partially failed run is recovered by
// simply re-running; only the surrogate songplay_id values differ between
// runs.
func run(ctx context.Context, cfg config.Config, jobName string) error {
	rt := cfg.Runtime.WithDefaults()
	be := source.NewLocal(source.Credentials{
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
	})

	if err := processSongData(ctx, be, cfg, rt, jobName); err != nil {
		return err
	}
	return processLogData(ctx, be, cfg, rt, jobName)
}

// processSongData reads the raw catalog and writes the songs and artists
// dimensions.
func processSongData(ctx context.Context, be source.Backend, cfg config.Config, rt config.RuntimeConfig, jobName string) error {
	start := time.Now()

	catalog, err := readCatalog(ctx, be, cfg.Input.Path, rt.ReaderWorkers)
	metrics.RecordStep(jobName, "read_catalog", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("catalog pipeline: %w", err)
	}

	songs := tables.BuildSongs(catalog)
	nSongs, err := sink.WriteTable(ctx, be, joinPath(cfg.Output.Path, "songs"), songs, tables.SongPartitions)
	if err != nil {
		return fmt.Errorf("write songs: %w", err)
	}
	metrics.RecordRows(jobName, "songs", nSongs)

	artists := tables.BuildArtists(catalog)
	nArtists, err := sink.WriteTable(ctx, be, joinPath(cfg.Output.Path, "artists"), artists, nil)
	if err != nil {
		return fmt.Errorf("write artists: %w", err)
	}
	metrics.RecordRows(jobName, "artists", nArtists)

	fmt.Println("nrows of:")
	fmt.Printf("\tsongs:  %d\n", nSongs)
	fmt.Printf("\tartists: %d\n", nArtists)
	return nil
}

// processLogData reads the raw activity logs, writes the users and time
// dimensions, re-reads the raw catalog, and writes the reconciled songplays
// fact table. The time table is always built from the same play-filtered
// set the fact join consumes.
func processLogData(ctx context.Context, be source.Backend, cfg config.Config, rt config.RuntimeConfig, jobName string) error {
	start := time.Now()

	agg := newErrAgg(errSamples)
	activity, err := jsonl.ReadGlob(ctx, be, joinPath(cfg.Input.Path, activityGlob), schema.Activity(), rt.ReaderWorkers, schema.ActivityFromRow,
		func(file string, line int, rowErr error) {
			agg.add(fmt.Sprintf("%s line %d: %v", file, line, rowErr))
		})
	metrics.RecordStep(jobName, "read_activity", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("activity pipeline: %w", err)
	}
	log.Printf("[SUCCESS] reading log data from %s.", source.Detect(cfg.Input.Path))
	agg.summarize("activity read")

	plays := tables.FilterPlays(activity)
	log.Printf("activity records: %d raw, %d play events", len(activity), len(plays))

	users := tables.BuildUsers(plays)
	nUsers, err := sink.WriteTable(ctx, be, joinPath(cfg.Output.Path, "users"), users, nil)
	if err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	metrics.RecordRows(jobName, "users", nUsers)

	timeTable := tables.BuildTime(plays)
	nTime, err := sink.WriteTable(ctx, be, joinPath(cfg.Output.Path, "time"), timeTable, tables.TimePartitions)
	if err != nil {
		return fmt.Errorf("write time: %w", err)
	}
	metrics.RecordRows(jobName, "time", nTime)

	// The fact join runs against the raw catalog source, not the deduped
	// songs/artists tables.
	catalog, err := readCatalog(ctx, be, cfg.Input.Path, rt.ReaderWorkers)
	if err != nil {
		return fmt.Errorf("activity pipeline: %w", err)
	}

	joinStart := time.Now()
	songplays, err := tables.Reconcile(ctx, plays, catalog, timeTable, rt.JoinWorkers)
	metrics.RecordStep(jobName, "reconcile", err, time.Since(joinStart))
	if err != nil {
		return fmt.Errorf("reconcile songplays: %w", err)
	}

	nPlays, err := sink.WriteTable(ctx, be, joinPath(cfg.Output.Path, "songplays"), songplays, tables.SongplayPartitions)
	if err != nil {
		return fmt.Errorf("write songplays: %w", err)
	}
	metrics.RecordRows(jobName, "songplays", nPlays)
	log.Printf("[SUCCESS] writing songplays data to %s.", source.Detect(cfg.Output.Path))

	fmt.Println("nrows of:")
	fmt.Printf("\tusers: %d\n", nUsers)
	fmt.Printf("\ttime: %d\n", nTime)
	fmt.Printf("\tsongplays: %d\n", nPlays)
	return nil
}

// readCatalog parses every catalog file under the input root against the
// fixed catalog contract. Row-level schema mismatches are summarized, not
// fatal.
func readCatalog(ctx context.Context, be source.Backend, inputRoot string, workers int) ([]schema.CatalogRecord, error) {
	agg := newErrAgg(errSamples)
	records, err := jsonl.ReadGlob(ctx, be, joinPath(inputRoot, catalogGlob), schema.Catalog(), workers, schema.CatalogFromRow,
		func(file string, line int, rowErr error) {
			agg.add(fmt.Sprintf("%s line %d: %v", file, line, rowErr))
		})
	if err != nil {
		return nil, err
	}
	log.Printf("[SUCCESS] reading song data from %s.", source.Detect(inputRoot))
	agg.summarize("catalog read")
	return records, nil
}

// joinPath concatenates a storage root and a relative path without
// normalizing the root, so object-store URI schemes survive untouched.
func joinPath(root, rel string) string {
	return strings.TrimRight(root, "/") + "/" + rel
}

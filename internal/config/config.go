// Package config defines the JSON-serializable job configuration for the
// data lake ETL and a static validator over it.
//
// The model is intentionally small, explicit, and dependency-free: a job
// file decodes with the standard library and passes through the program
// without glue code. The aws section is the only secret-bearing surface;
// its keys are handed to the storage backend constructor explicitly rather
// than being injected into the process environment, so the dependency
// between configuration and storage access stays visible.
//
// Example:
//
//	{
//	  "job":    "songplays_lake",
//	  "input":  { "path": "data" },
//	  "output": { "path": "data/output" },
//	  "aws":    { "access_key_id": "...", "secret_access_key": "..." },
//	  "runtime": { "reader_workers": 4, "join_workers": 4 }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the top-level object decoded from a job file.
type Config struct {
	// Job names the run for log and metrics labeling.
	Job string `json:"job"`

	// Input is the root under which song_data/ and log_data/ live.
	Input Path `json:"input"`

	// Output is the root the five table directories are written under.
	Output Path `json:"output"`

	// AWS carries the object-store credentials section. Required only when
	// either root is an object-store path.
	AWS AWSConfig `json:"aws"`

	// Runtime controls concurrency. Zero values fall back to defaults.
	Runtime RuntimeConfig `json:"runtime"`
}

// Path wraps a storage location so the JSON shape has room for per-location
// options later without breaking existing job files.
type Path struct {
	Path string `json:"path"`
}

// AWSConfig is the named credentials section of the job file.
type AWSConfig struct {
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
}

// RuntimeConfig controls worker counts for the run.
type RuntimeConfig struct {
	// ReaderWorkers bounds concurrent input-file parses.
	ReaderWorkers int `json:"reader_workers"`
	// JoinWorkers bounds concurrent fact-reconciliation workers.
	JoinWorkers int `json:"join_workers"`
}

const (
	DefaultReaderWorkers = 4
	DefaultJoinWorkers   = 4
)

// WithDefaults returns r with zero or negative knobs replaced by defaults.
func (r RuntimeConfig) WithDefaults() RuntimeConfig {
	if r.ReaderWorkers <= 0 {
		r.ReaderWorkers = DefaultReaderWorkers
	}
	if r.JoinWorkers <= 0 {
		r.JoinWorkers = DefaultJoinWorkers
	}
	return r
}

// Load reads and decodes a job file. Defaults are not applied here; Validate
// flags the gaps and the caller applies WithDefaults where it wants them.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var c Config
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return c, nil
}

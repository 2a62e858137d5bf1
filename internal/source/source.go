// Package source provides the uniform read/write path abstraction the
// pipeline uses for its input and output locations.
//
// The pipeline itself never branches on where data lives: it lists files with
// a glob, opens them for reading, and creates output files, all through the
// Backend interface. The local filesystem implementation lives here; an
// object-store implementation is an external collaborator that plugs in
// behind the same interface. Detect exists purely so the pipeline can log
// which kind of location it is talking to.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Kind names the storage location kind for diagnostic log lines.
type Kind string

const (
	KindLocal       Kind = "local file system"
	KindObjectStore Kind = "AWS S3 bucket"
)

// Detect classifies a path by substring match. This mirrors the upstream
// job's behavior and is used for logging only, never as a functional branch.
func Detect(path string) Kind {
	if strings.Contains(strings.ToLower(path), "s3") {
		return KindObjectStore
	}
	return KindLocal
}

// Credentials carries the object-store access keys. They are threaded
// explicitly into backend construction instead of being injected into the
// process environment, so the dependency is visible at the call site.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
}

// Missing reports whether either key is absent.
func (c Credentials) Missing() bool {
	return strings.TrimSpace(c.AccessKeyID) == "" || strings.TrimSpace(c.SecretAccessKey) == ""
}

// Backend is the minimal storage surface the pipeline needs: list inputs by
// glob, read them, create outputs (parents included), and clear an output
// directory for overwrite.
type Backend interface {
	Glob(pattern string) ([]string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Create(ctx context.Context, name string) (io.WriteCloser, error)
	RemoveAll(path string) error
}

// Local is the filesystem-backed Backend. It is safe for concurrent use.
type Local struct {
	creds Credentials
}

// NewLocal returns a Local backend. The credentials are accepted (and
// ignored) so that construction has the same shape as an object-store
// backend; callers wire them unconditionally.
func NewLocal(creds Credentials) *Local {
	return &Local{creds: creds}
}

// Glob lists files matching pattern, in lexical order.
func (l *Local) Glob(pattern string) ([]string, error) {
	names, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	return names, nil
}

// Open opens name for reading. A context that is already done fails fast
// without touching the filesystem.
func (l *Local) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

// Create creates name for writing, creating parent directories as needed.
func (l *Local) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir for %s: %w", name, err)
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	return f, nil
}

// RemoveAll removes path and everything under it. A missing path is not an
// error; overwrite semantics only need the destination gone.
func (l *Local) RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

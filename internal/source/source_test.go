package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

/*
TestDetect classifies paths by substring, mirroring the upstream job's
diagnostic: anything mentioning s3 is an object-store location, everything
else is local.
*/
func TestDetect(t *testing.T) {
	cases := []struct {
		path string
		want Kind
	}{
		{"data", KindLocal},
		{"/var/lake/input", KindLocal},
		{"s3a://udacity-dend/", KindObjectStore},
		{"s3://bucket/data_out", KindObjectStore},
		{"S3://BUCKET/x", KindObjectStore},
	}
	for _, tc := range cases {
		if got := Detect(tc.path); got != tc.want {
			t.Fatalf("Detect(%q) = %q; want %q", tc.path, got, tc.want)
		}
	}
}

func TestCredentialsMissing(t *testing.T) {
	if (Credentials{AccessKeyID: "a", SecretAccessKey: "b"}).Missing() {
		t.Fatalf("complete credentials reported missing")
	}
	if !(Credentials{AccessKeyID: "a"}).Missing() {
		t.Fatalf("absent secret not reported missing")
	}
	if !(Credentials{AccessKeyID: " ", SecretAccessKey: "b"}).Missing() {
		t.Fatalf("blank key id not reported missing")
	}
}

/*
TestLocal_RoundTrip exercises the whole Backend surface on a temp dir:
Create with implicit parent dirs, Open, Glob, and RemoveAll (including the
missing-path case, which must not be an error).
*/
func TestLocal_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	be := NewLocal(Credentials{})
	ctx := context.Background()

	name := filepath.Join(dir, "a", "b", "f.json")
	w, err := be.Create(ctx, name)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := io.WriteString(w, `{"x":1}`); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	matches, err := be.Glob(filepath.Join(dir, "*", "*", "*.json"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(matches) != 1 || matches[0] != name {
		t.Fatalf("Glob = %v; want [%s]", matches, name)
	}

	r, err := be.Open(ctx, name)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, err := io.ReadAll(r)
	r.Close()
	if err != nil || string(data) != `{"x":1}` {
		t.Fatalf("read back %q, err %v", data, err)
	}

	if err := be.RemoveAll(filepath.Join(dir, "a")); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if _, err := os.Stat(name); !os.IsNotExist(err) {
		t.Fatalf("file survived RemoveAll")
	}
	if err := be.RemoveAll(filepath.Join(dir, "never-existed")); err != nil {
		t.Fatalf("RemoveAll on missing path: %v", err)
	}
}

/*
TestLocal_CanceledContext verifies fail-fast on a done context, before any
filesystem access.
*/
func TestLocal_CanceledContext(t *testing.T) {
	be := NewLocal(Credentials{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := be.Open(ctx, "whatever"); err == nil {
		t.Fatalf("Open with canceled context succeeded")
	}
	if _, err := be.Create(ctx, filepath.Join(t.TempDir(), "x")); err == nil {
		t.Fatalf("Create with canceled context succeeded")
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadSourceFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.bs")
	if err := os.WriteFile(path, []byte(`show(1);`), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := readSource([]string{path})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got != `show(1);` {
		t.Errorf("got %q", got)
	}
}

func TestReadSourceMissingFile(t *testing.T) {
	if _, err := readSource([]string{"/nonexistent/path.bs"}); err == nil {
		t.Errorf("expected an error reading a missing file")
	}
}

package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/javanhut/ditiear/internal/cas"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func newStore(t *testing.T) *cas.Store {
	t.Helper()
	store, err := cas.Open(t.TempDir())
	if err != nil {
		t.Fatalf("cas.Open: %v", err)
	}
	return store
}

// P1: snapshot(D, C1) == snapshot(D, C2) for two empty CASes.
func TestDeterminismAcrossStores(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"a.txt":        "hello",
		"dir/b.txt":    "world",
		"dir/sub/c.go": "package sub",
	})

	h1, err := Build(src, newStore(t))
	if err != nil {
		t.Fatalf("Build #1: %v", err)
	}
	h2, err := Build(src, newStore(t))
	if err != nil {
		t.Fatalf("Build #2: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("snapshot not deterministic across stores: %s vs %s", h1, h2)
	}
}

// P3: running snapshot(D, C) twice against the same CAS yields the same
// root hash.
func TestIdempotentRebuild(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"only.txt": "content"})

	store := newStore(t)
	h1, err := Build(src, store)
	if err != nil {
		t.Fatalf("Build #1: %v", err)
	}
	h2, err := Build(src, store)
	if err != nil {
		t.Fatalf("Build #2: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("rebuild against same store changed root hash: %s vs %s", h1, h2)
	}
}

// P9: a file literally named .DS_Store does not change snapshot(D).
func TestHiddenFilter(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.txt": "hello"})
	without, err := Build(src, newStore(t))
	if err != nil {
		t.Fatalf("Build without .DS_Store: %v", err)
	}

	writeTree(t, src, map[string]string{".DS_Store": "junk", "dir/.DS_Store": "junk"})
	with, err := Build(src, newStore(t))
	if err != nil {
		t.Fatalf("Build with .DS_Store: %v", err)
	}

	if without != with {
		t.Fatalf("adding .DS_Store changed root hash: %s vs %s", without, with)
	}
}

// I6: an empty directory after filtering is elided from its parent.
func TestEmptyDirElision(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.txt": "hello"})
	without, err := Build(src, newStore(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if err := os.MkdirAll(filepath.Join(src, "empty"), 0o755); err != nil {
		t.Fatalf("mkdir empty: %v", err)
	}
	with, err := Build(src, newStore(t))
	if err != nil {
		t.Fatalf("Build with empty dir: %v", err)
	}

	if without != with {
		t.Fatalf("empty directory changed root hash: %s vs %s", without, with)
	}
}

// P10: readdir order does not affect snapshot(D). We can't control the
// OS's enumeration order directly, but we can confirm that building
// from directories populated in opposite insertion order converges.
func TestSortIndependence(t *testing.T) {
	srcA := t.TempDir()
	writeTree(t, srcA, map[string]string{"a.txt": "1", "b.txt": "2", "c.txt": "3"})

	srcB := t.TempDir()
	writeTree(t, srcB, map[string]string{"c.txt": "3", "b.txt": "2", "a.txt": "1"})

	hA, err := Build(srcA, newStore(t))
	if err != nil {
		t.Fatalf("Build A: %v", err)
	}
	hB, err := Build(srcB, newStore(t))
	if err != nil {
		t.Fatalf("Build B: %v", err)
	}
	if hA != hB {
		t.Fatalf("insertion order affected root hash: %s vs %s", hA, hB)
	}
}

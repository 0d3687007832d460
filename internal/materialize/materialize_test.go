package materialize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/javanhut/ditiear/internal/cas"
	"github.com/javanhut/ditiear/internal/snapshot"
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

func TestCheckoutRoundTrip(t *testing.T) {
	store, err := cas.Open(t.TempDir())
	if err != nil {
		t.Fatalf("cas.Open: %v", err)
	}

	src := t.TempDir()
	files := map[string]string{
		"a.txt":         "hello",
		"dir/b.txt":     "world",
		"dir/sub/c.txt": "nested",
		"top_level.go":  "package top",
	}
	writeTree(t, src, files)

	root, err := snapshot.Build(src, store)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	dst := t.TempDir()
	if err := Checkout(store, root, dst); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	for rel, want := range files {
		got, err := os.ReadFile(filepath.Join(dst, rel))
		if err != nil {
			t.Fatalf("read %s after checkout: %v", rel, err)
		}
		if string(got) != want {
			t.Fatalf("%s: got %q, want %q", rel, got, want)
		}
	}

	// Re-snapshotting the checkout reproduces the original root hash.
	root2, err := snapshot.Build(dst, store)
	if err != nil {
		t.Fatalf("re-snapshot of checkout: %v", err)
	}
	if root2 != root {
		t.Fatalf("re-snapshotting the checkout changed the hash: %s vs %s", root2, root)
	}
}

package cashash

import (
	"os"
	"path/filepath"
	"testing"
)

// TestBytesHashEmptyVector pins BytesHash against the well-known XXH64
// reference vector for the empty input (seed 0): 0xEF46DB3751D8E999.
// This cross-checks fromSum's big-endian byte ordering independently of
// any fixture file.
func TestBytesHashEmptyVector(t *testing.T) {
	got := BytesHash(nil)
	want := Hash("ef46db3751d8e999")
	if got != want {
		t.Fatalf("BytesHash(nil) = %s, want %s", got, want)
	}
}

func TestBytesHashLength(t *testing.T) {
	h := BytesHash([]byte("arbitrary content"))
	if len(h) != 16 {
		t.Fatalf("expected 16 hex chars, got %d (%s)", len(h), h)
	}
	if !h.Valid() {
		t.Fatalf("expected %s to be Valid", h)
	}
}

func TestFileHashMatchesBytesHash(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.bin")
	data := []byte("some file content that fits within a single chunk")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	fh, err := FileHash(path)
	if err != nil {
		t.Fatalf("FileHash: %v", err)
	}
	bh := BytesHash(data)
	if fh != bh {
		t.Fatalf("FileHash %s != BytesHash %s for identical content", fh, bh)
	}
}

func TestFileHashLargerThanChunk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.bin")
	data := make([]byte, chunkSize*3+17)
	for i := range data {
		data[i] = byte(i)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	fh, err := FileHash(path)
	if err != nil {
		t.Fatalf("FileHash: %v", err)
	}
	if fh != BytesHash(data) {
		t.Fatalf("chunked hash diverged from single-shot hash")
	}
}

func TestShardSplit(t *testing.T) {
	h := Hash("0123456789abcdef")
	dir, name := Shard(h)
	if dir != "0" || name != "123456789abcdef" {
		t.Fatalf("Shard(%s) = (%q, %q)", h, dir, name)
	}
}

func TestValidRejectsWrongLength(t *testing.T) {
	if Hash("abc").Valid() {
		t.Fatalf("expected short hash to be invalid")
	}
	if Hash("zzzzzzzzzzzzzzzz").Valid() {
		t.Fatalf("expected non-hex hash to be invalid")
	}
}

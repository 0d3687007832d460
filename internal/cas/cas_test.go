package cas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/javanhut/ditiear/internal/blobrecord"
	"github.com/javanhut/ditiear/internal/cashash"
)

func TestPutFileIdempotent(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "store"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	src := filepath.Join(dir, "hello.txt")
	if err := os.WriteFile(src, []byte("hello world"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	h1, err := store.PutFile(src)
	if err != nil {
		t.Fatalf("PutFile: %v", err)
	}
	h2, err := store.PutFile(src)
	if err != nil {
		t.Fatalf("second PutFile: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("hash changed between runs: %s vs %s", h1, h2)
	}

	data, err := store.ReadAll(h1)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "hello world" {
		t.Fatalf("content mismatch: %q", data)
	}
}

func TestPutFileSharding(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "store"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	src := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(src, []byte("content"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	h, err := store.PutFile(src)
	if err != nil {
		t.Fatalf("PutFile: %v", err)
	}

	shardDir, name := cashash.Shard(h)
	want := filepath.Join(store.Root(), shardDir, name)
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected object at sharded path %s: %v", want, err)
	}
}

func TestPutManifestSortsByName(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	records := []blobrecord.Record{
		{Name: "z.txt", Hash: "0000000000000000", Kind: blobrecord.KindFile},
		{Name: "a.txt", Hash: "1111111111111111", Kind: blobrecord.KindFile},
	}

	h1, err := store.PutManifest(records)
	if err != nil {
		t.Fatalf("PutManifest: %v", err)
	}

	reversed := []blobrecord.Record{records[1], records[0]}
	h2, err := store.PutManifest(reversed)
	if err != nil {
		t.Fatalf("PutManifest (reversed input): %v", err)
	}

	if h1 != h2 {
		t.Fatalf("manifest hash depends on input order: %s vs %s", h1, h2)
	}

	got, err := store.LoadManifest(h1)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(got) != 2 || got[0].Name != "a.txt" || got[1].Name != "z.txt" {
		t.Fatalf("manifest not sorted by name: %+v", got)
	}
}

func TestHasUnknownHash(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	has, err := store.Has("0000000000000000")
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if has {
		t.Fatalf("expected unknown hash to be absent")
	}
}

func TestWriteBlobRederivesShardedPath(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	data := []byte("payload")
	h := cashash.BytesHash(data)
	if err := store.WriteBlob(h, data); err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}

	shardDir, name := cashash.Shard(h)
	if _, err := os.Stat(filepath.Join(dir, shardDir, name)); err != nil {
		t.Fatalf("WriteBlob did not land at sharded path: %v", err)
	}
}

// Package snapshot implements the tree snapshot builder of spec.md §4.4:
// given a source directory, it writes every file blob and directory
// manifest blob into a cas.Store and returns the root manifest hash.
//
// Grounded on internal/fsmerkle/api.go's buildTreeFromMapRecursive
// post-order shape, walking a real directory tree instead of an
// in-memory path→content map.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/javanhut/ditiear/internal/blobrecord"
	"github.com/javanhut/ditiear/internal/cas"
	"github.com/javanhut/ditiear/internal/cashash"
)

// hiddenName is excluded from every manifest and never hashed (I5).
const hiddenName = ".DS_Store"

// Build walks fromDir recursively in post-order, populating store with a
// file blob per regular file and a manifest blob per non-empty
// directory, and returns the root manifest's hash.
//
// The walk is a pure function of fromDir's content, the sharding rule,
// and the hash function (I1); filesystem enumeration order is
// normalized away by sorting each directory's records before hashing
// (I2).
func Build(fromDir string, store *cas.Store) (cashash.Hash, error) {
	records, err := buildDir(fromDir, store)
	if err != nil {
		return "", err
	}
	return store.PutManifest(records)
}

// buildDir returns the sorted BlobRecords for the contents of dir
// (recursing into subdirectories first, post-order).
func buildDir(dir string, store *cas.Store) ([]blobrecord.Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read dir %s: %w", dir, err)
	}

	var records []blobrecord.Record
	for _, entry := range entries {
		name := entry.Name()
		if name == hiddenName {
			continue
		}
		childPath := filepath.Join(dir, name)

		if entry.IsDir() {
			childRecords, err := buildDir(childPath, store)
			if err != nil {
				return nil, err
			}
			if len(childRecords) == 0 {
				// I6: an empty directory (after filtering) is elided
				// entirely from its parent's manifest.
				continue
			}
			hash, err := store.PutManifest(childRecords)
			if err != nil {
				return nil, fmt.Errorf("snapshot: write manifest for %s: %w", childPath, err)
			}
			records = append(records, blobrecord.Record{
				Name: name,
				Hash: string(hash),
				Kind: blobrecord.KindDirectory,
			})
			continue
		}

		if !entry.Type().IsRegular() {
			// Symlinks, devices, sockets, etc. have no blob
			// representation in this data model; skip them.
			continue
		}

		hash, err := store.PutFile(childPath)
		if err != nil {
			return nil, fmt.Errorf("snapshot: write file blob for %s: %w", childPath, err)
		}
		records = append(records, blobrecord.Record{
			Name: name,
			Hash: string(hash),
			Kind: blobrecord.KindFile,
		})
	}

	return records, nil
}

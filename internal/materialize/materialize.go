// Package materialize writes a CAS-resident snapshot back out onto disk
// as a real directory tree (a checkout), the inverse of internal/snapshot.
//
// Grounded on internal/workspace/workspace.go's ApplyChangesToWorkspace,
// which walks a change list and does os.MkdirAll + os.WriteFile per
// entry; adapted here to a recursive manifest walk instead of a flat
// change list, since materialize always writes a complete tree rather
// than applying incremental edits.
package materialize

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/javanhut/ditiear/internal/blobrecord"
	"github.com/javanhut/ditiear/internal/cas"
	"github.com/javanhut/ditiear/internal/cashash"
)

// fileMode is used for every materialized file; the data model carries
// no permission bits, matching blobrecord.Record's two-kind vocabulary.
const fileMode = 0o644

// Checkout writes the tree rooted at root into toDir, creating toDir if
// necessary. Existing files at the destination are overwritten; this is
// not an incremental sync.
func Checkout(store *cas.Store, root cashash.Hash, toDir string) error {
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return fmt.Errorf("materialize: create %s: %w", toDir, err)
	}
	records, err := store.LoadManifest(root)
	if err != nil {
		return fmt.Errorf("materialize: load root manifest %s: %w", root, err)
	}
	return writeDir(store, records, toDir)
}

func writeDir(store *cas.Store, records []blobrecord.Record, dir string) error {
	for _, r := range records {
		dst := filepath.Join(dir, r.Name)
		switch r.Kind {
		case blobrecord.KindDirectory:
			if err := os.MkdirAll(dst, 0o755); err != nil {
				return fmt.Errorf("materialize: create dir %s: %w", dst, err)
			}
			children, err := store.LoadManifest(cashash.Hash(r.Hash))
			if err != nil {
				return fmt.Errorf("materialize: load manifest %s for %s: %w", r.Hash, dst, err)
			}
			if err := writeDir(store, children, dst); err != nil {
				return err
			}
		case blobrecord.KindFile:
			data, err := store.ReadAll(cashash.Hash(r.Hash))
			if err != nil {
				return fmt.Errorf("materialize: read blob %s for %s: %w", r.Hash, dst, err)
			}
			if err := os.WriteFile(dst, data, fileMode); err != nil {
				return fmt.Errorf("materialize: write %s: %w", dst, err)
			}
		default:
			return fmt.Errorf("materialize: unknown kind for %s", dst)
		}
	}
	return nil
}

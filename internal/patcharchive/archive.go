package patcharchive

import (
	"archive/zip"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/flate"
	"lukechampine.com/blake3"

	"github.com/javanhut/ditiear/internal/bytediff"
	"github.com/javanhut/ditiear/internal/cas"
	"github.com/javanhut/ditiear/internal/cashash"
	"github.com/javanhut/ditiear/internal/treediff"
)

// patchEntryName is the archive entry holding the serialized BlobPatch
// stream; every other entry is named by its content's hash.
const patchEntryName = "ditiear.patch"

// registerFlate swaps archive/zip's deflate codec for klauspost/compress's
// faster implementation, mirroring internal/pack.go's CompressAlgo
// swap-in pattern for the git packfile writer.
var registerFlate sync.Once

func useFastFlate() {
	registerFlate.Do(func() {
		zip.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(w, flate.DefaultCompression)
		})
		zip.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
			return flate.NewReader(r)
		})
	})
}

// changesToBlobPatches converts a treediff change list into the BlobPatch
// stream spec.md §4.7 describes: Add/Delete map directly, Modify{file}
// becomes Replace carrying the byte-level diff of the two blobs read from
// fromCAS. treediff never emits Modify for directories (same-hash
// subtrees are skipped and differing ones are recursed into, never
// reported at their own level), so no directory case arises here.
func changesToBlobPatches(fromCAS *cas.Store, changes []treediff.Change) ([]BlobPatch, error) {
	patches := make([]BlobPatch, 0, len(changes))
	for _, c := range changes {
		switch c.Kind {
		case treediff.Add:
			patches = append(patches, BlobPatch{Kind: PatchAdd, NewHash: cashash.Hash(c.NewHash)})
		case treediff.Delete:
			patches = append(patches, BlobPatch{Kind: PatchDelete, OldHash: cashash.Hash(c.OldHash)})
		case treediff.Modify:
			oldData, err := fromCAS.ReadAll(cashash.Hash(c.OldHash))
			if err != nil {
				return nil, fmt.Errorf("patcharchive: read old blob for %s: %w", c.Path, err)
			}
			newData, err := fromCAS.ReadAll(cashash.Hash(c.NewHash))
			if err != nil {
				return nil, fmt.Errorf("patcharchive: read new blob for %s: %w", c.Path, err)
			}
			ops := bytediff.Diff(oldData, newData)
			patches = append(patches, BlobPatch{
				Kind: PatchReplace, OldHash: cashash.Hash(c.OldHash),
				NewHash: cashash.Hash(c.NewHash), Ops: ops,
			})
		default:
			return nil, fmt.Errorf("patcharchive: unknown change kind %v", c.Kind)
		}
	}
	return patches, nil
}

// CreatePatch packages changes (as produced by treediff.Diff over
// fromCAS) into a deflate-compressed archive at destArchive. If changes
// is empty, no archive is written and CreatePatch returns (false, nil).
func CreatePatch(fromCAS *cas.Store, changes []treediff.Change, destArchive string) (bool, error) {
	if len(changes) == 0 {
		return false, nil
	}
	useFastFlate()

	patches, err := changesToBlobPatches(fromCAS, changes)
	if err != nil {
		return false, err
	}

	f, err := os.Create(destArchive)
	if err != nil {
		return false, fmt.Errorf("patcharchive: create %s: %w", destArchive, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	patchWriter, err := zw.CreateHeader(&zip.FileHeader{Name: patchEntryName, Method: zip.Deflate})
	if err != nil {
		return false, fmt.Errorf("patcharchive: start %s entry: %w", patchEntryName, err)
	}
	var patchBuf bytes.Buffer
	for _, p := range patches {
		EncodeBlobPatch(&patchBuf, p)
	}
	if _, err := patchWriter.Write(patchBuf.Bytes()); err != nil {
		return false, fmt.Errorf("patcharchive: write %s entry: %w", patchEntryName, err)
	}

	for _, p := range patches {
		if p.Kind != PatchAdd {
			continue
		}
		data, err := fromCAS.ReadAll(p.NewHash)
		if err != nil {
			return false, fmt.Errorf("patcharchive: read add-blob %s: %w", p.NewHash, err)
		}
		blobWriter, err := zw.CreateHeader(&zip.FileHeader{Name: string(p.NewHash), Method: zip.Deflate})
		if err != nil {
			return false, fmt.Errorf("patcharchive: start entry for %s: %w", p.NewHash, err)
		}
		if _, err := blobWriter.Write(data); err != nil {
			return false, fmt.Errorf("patcharchive: write entry for %s: %w", p.NewHash, err)
		}
	}

	if err := zw.Close(); err != nil {
		return false, fmt.Errorf("patcharchive: finalize archive: %w", err)
	}
	return true, nil
}

// CreatePatchBetween is the convenience entry point mirrored from
// original_source/src/prelude.rs, which bundles snapshotting both trees,
// diffing, and packaging behind one call. Here it takes already-computed
// roots (snapshot itself lives in internal/snapshot) and composes
// treediff.Diff with CreatePatch.
func CreatePatchBetween(store *cas.Store, oldRoot, newRoot cashash.Hash, destArchive string) (bool, error) {
	changes, err := treediff.Diff(store, oldRoot, newRoot)
	if err != nil {
		return false, fmt.Errorf("patcharchive: diff: %w", err)
	}
	return CreatePatch(store, changes, destArchive)
}

// ApplyPatch replays archive against targetCAS: every non-patch entry is
// written into the CAS at its hash's sharded path (idempotent), then the
// ditiear.patch entry's Replace records are applied by rewriting the old
// blob's content and storing the result under the new hash. Add and
// Delete records are no-ops at this stage beyond the entry materialization
// already performed.
func ApplyPatch(archivePath string, targetCAS *cas.Store) error {
	useFastFlate()

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("patcharchive: open %s: %w", archivePath, err)
	}
	defer zr.Close()

	var patchData []byte
	for _, f := range zr.File {
		if f.Name == patchEntryName {
			continue
		}
		data, err := readZipEntry(f)
		if err != nil {
			return fmt.Errorf("patcharchive: read entry %s: %w", f.Name, err)
		}
		if err := targetCAS.WriteBlob(cashash.Hash(f.Name), data); err != nil {
			return fmt.Errorf("patcharchive: write add-blob %s: %w", f.Name, err)
		}
	}

	for _, f := range zr.File {
		if f.Name == patchEntryName {
			patchData, err = readZipEntry(f)
			if err != nil {
				return fmt.Errorf("patcharchive: read %s: %w", patchEntryName, err)
			}
			break
		}
	}
	if patchData == nil {
		return fmt.Errorf("patcharchive: archive %s has no %s entry", archivePath, patchEntryName)
	}

	patches, err := DecodeBlobPatches(patchData)
	if err != nil {
		return fmt.Errorf("patcharchive: decode patch stream: %w", err)
	}

	for _, p := range patches {
		if p.Kind != PatchReplace {
			continue
		}
		oldData, err := targetCAS.ReadAll(p.OldHash)
		if err != nil {
			return fmt.Errorf("patcharchive: read base blob %s: %w", p.OldHash, err)
		}
		newData := bytediff.Apply(oldData, p.Ops)
		if err := targetCAS.WriteBlob(p.NewHash, newData); err != nil {
			return fmt.Errorf("patcharchive: write replaced blob %s: %w", p.NewHash, err)
		}
	}

	return nil
}

// Digest returns a BLAKE3-256 hex digest of an archive file, a
// supplementary integrity check a client can log or compare alongside
// the archive's own content-addressed hashes; unlike cashash's xxHash64
// it is not used for any object's key space.
func Digest(archivePath string) (string, error) {
	data, err := os.ReadFile(archivePath)
	if err != nil {
		return "", fmt.Errorf("patcharchive: read %s: %w", archivePath, err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

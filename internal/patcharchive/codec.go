// Package patcharchive implements the patch packager/applier of spec.md
// §4.7: it turns a treediff change list into a deflate-compressed archive
// of BlobPatch records plus raw add-blobs, and replays such an archive
// against a content-addressed store.
//
// There is no bincode-equivalent library in the pack for BlobPatch's
// encoding, so this file hand-rolls a uvarint/length-prefixed binary
// codec, following internal/fsmerkle/types.go's CanonicalBytes
// convention (binary.PutUvarint into a bytes.Buffer, one field at a
// time) rather than reaching for encoding/gob, which is Go-specific and
// not part of the teacher's or the pack's idiom.
package patcharchive

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/javanhut/ditiear/internal/bytediff"
	"github.com/javanhut/ditiear/internal/cashash"
)

// PatchKind tags a BlobPatch as an add, delete, or content replacement.
type PatchKind byte

const (
	PatchAdd PatchKind = iota
	PatchDelete
	PatchReplace
)

// BlobPatch is one entry of the ditiear.patch stream (spec.md §4.7).
type BlobPatch struct {
	Kind    PatchKind
	OldHash cashash.Hash // set for Delete and Replace
	NewHash cashash.Hash // set for Add and Replace
	Ops     []bytediff.BytePatch
}

func putUvarint(buf *bytes.Buffer, v uint64) {
	tmp := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(tmp, v)
	buf.Write(tmp[:n])
}

func putBytes(buf *bytes.Buffer, b []byte) {
	putUvarint(buf, uint64(len(b)))
	buf.Write(b)
}

func putHash(buf *bytes.Buffer, h cashash.Hash) {
	buf.WriteString(string(h))
}

func encodeBytePatch(buf *bytes.Buffer, op bytediff.BytePatch) {
	buf.WriteByte(byte(op.Kind))
	putUvarint(buf, uint64(op.OldIndex))
	putUvarint(buf, uint64(op.NewIndex))
	switch op.Kind {
	case bytediff.OpAdd:
		putBytes(buf, op.NewValue)
	case bytediff.OpDelete:
		putBytes(buf, op.OldValue)
	case bytediff.OpReplace:
		putBytes(buf, op.OldValue)
		putBytes(buf, op.NewValue)
	}
}

// EncodeBlobPatch appends p's canonical binary encoding to buf.
func EncodeBlobPatch(buf *bytes.Buffer, p BlobPatch) {
	buf.WriteByte(byte(p.Kind))
	switch p.Kind {
	case PatchAdd:
		putHash(buf, p.NewHash)
	case PatchDelete:
		putHash(buf, p.OldHash)
	case PatchReplace:
		putHash(buf, p.OldHash)
		putHash(buf, p.NewHash)
		putUvarint(buf, uint64(len(p.Ops)))
		for _, op := range p.Ops {
			encodeBytePatch(buf, op)
		}
	}
}

// hashLen is the fixed width of a cashash.Hash's textual encoding.
const hashLen = 16

func readHash(r *bytes.Reader) (cashash.Hash, error) {
	buf := make([]byte, hashLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("patcharchive: read hash: %w", err)
	}
	return cashash.Hash(buf), nil
}

func readBytes(r *bytes.Reader) ([]byte, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("patcharchive: read length: %w", err)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("patcharchive: read payload: %w", err)
	}
	return buf, nil
}

func decodeBytePatch(r *bytes.Reader) (bytediff.BytePatch, error) {
	kindByte, err := r.ReadByte()
	if err != nil {
		return bytediff.BytePatch{}, fmt.Errorf("patcharchive: read op kind: %w", err)
	}
	op := bytediff.BytePatch{Kind: bytediff.OpKind(kindByte)}

	oldIndex, err := binary.ReadUvarint(r)
	if err != nil {
		return bytediff.BytePatch{}, fmt.Errorf("patcharchive: read op old_index: %w", err)
	}
	op.OldIndex = int(oldIndex)

	newIndex, err := binary.ReadUvarint(r)
	if err != nil {
		return bytediff.BytePatch{}, fmt.Errorf("patcharchive: read op new_index: %w", err)
	}
	op.NewIndex = int(newIndex)

	switch op.Kind {
	case bytediff.OpAdd:
		op.NewValue, err = readBytes(r)
	case bytediff.OpDelete:
		op.OldValue, err = readBytes(r)
	case bytediff.OpReplace:
		if op.OldValue, err = readBytes(r); err == nil {
			op.NewValue, err = readBytes(r)
		}
	}
	return op, err
}

// DecodeBlobPatches parses the full ditiear.patch stream into its
// ordered BlobPatch list. The stream is self-delimiting: each record's
// shape is fully determined by its leading kind byte, so no outer
// length or count prefix is needed.
func DecodeBlobPatches(data []byte) ([]BlobPatch, error) {
	r := bytes.NewReader(data)
	var patches []BlobPatch

	for r.Len() > 0 {
		kindByte, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("patcharchive: read patch kind: %w", err)
		}
		p := BlobPatch{Kind: PatchKind(kindByte)}

		switch p.Kind {
		case PatchAdd:
			if p.NewHash, err = readHash(r); err != nil {
				return nil, err
			}
		case PatchDelete:
			if p.OldHash, err = readHash(r); err != nil {
				return nil, err
			}
		case PatchReplace:
			if p.OldHash, err = readHash(r); err != nil {
				return nil, err
			}
			if p.NewHash, err = readHash(r); err != nil {
				return nil, err
			}
			count, err := binary.ReadUvarint(r)
			if err != nil {
				return nil, fmt.Errorf("patcharchive: read op count: %w", err)
			}
			p.Ops = make([]bytediff.BytePatch, count)
			for i := range p.Ops {
				p.Ops[i], err = decodeBytePatch(r)
				if err != nil {
					return nil, err
				}
			}
		default:
			return nil, fmt.Errorf("patcharchive: unknown patch kind %d", kindByte)
		}

		patches = append(patches, p)
	}

	return patches, nil
}

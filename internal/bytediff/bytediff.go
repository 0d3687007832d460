// Package bytediff implements the byte-level binary diff of spec.md §4.6:
// a Myers-algorithm comparison of two byte slices producing Add/Delete/
// Replace ops carrying the literal changed bytes.
//
// Grounded on original_source/src/diff.rs's calculate_binary_diff, which
// runs similar::capture_diff_slices(Algorithm::Myers, old, new) over raw
// byte slices and discards Equal ops. github.com/sergi/go-diff is the
// Myers implementation available in the pack; it operates on runes, so
// each byte is widened into its own rune (not decoded as UTF-8) to keep
// the diff exact over arbitrary binary content.
package bytediff

import (
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// OpKind tags a BytePatch as an insertion, deletion, or replacement.
type OpKind int

const (
	OpAdd OpKind = iota
	OpDelete
	OpReplace
)

func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "add"
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	default:
		return fmt.Sprintf("op(%d)", int(k))
	}
}

// BytePatch is one non-equal run in the Myers alignment of old and new.
// NewIndex is retained for self-description only: Apply positions every
// op by OldIndex and never seeks using NewIndex.
type BytePatch struct {
	Kind     OpKind
	OldIndex int
	NewIndex int
	OldValue []byte
	NewValue []byte
}

// bytesToRunes widens each byte of b into its own rune without UTF-8
// decoding, so byte values 0x80-0xFF survive the diff untouched.
func bytesToRunes(b []byte) []rune {
	r := make([]rune, len(b))
	for i, c := range b {
		r[i] = rune(c)
	}
	return r
}

// Diff computes the Myers byte-level diff between old and newer, returning
// every non-equal run as a BytePatch in old-to-new order.
func Diff(old, newer []byte) []BytePatch {
	dmp := diffmatchpatch.New()
	oldRunes := bytesToRunes(old)
	newRunes := bytesToRunes(newer)

	// checklines=false forces character-exact Myers diffing; the
	// line-mode optimization diffmatchpatch otherwise applies assumes
	// newline-delimited text and would corrupt arbitrary binary input.
	diffs := dmp.DiffMainRunes(oldRunes, newRunes, false)

	var patches []BytePatch
	oldCursor, newCursor := 0, 0

	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		runeLen := len([]rune(d.Text))

		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldCursor += runeLen
			newCursor += runeLen

		case diffmatchpatch.DiffDelete:
			oldStart := oldCursor
			oldValue := append([]byte(nil), old[oldStart:oldStart+runeLen]...)
			oldCursor += runeLen

			// A delete immediately followed by an insert at the same
			// position is a Replace, matching similar::DiffOp::Replace.
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				next := diffs[i+1]
				newLen := len([]rune(next.Text))
				newStart := newCursor
				newValue := append([]byte(nil), newer[newStart:newStart+newLen]...)
				newCursor += newLen
				patches = append(patches, BytePatch{
					Kind: OpReplace, OldIndex: oldStart, NewIndex: newStart,
					OldValue: oldValue, NewValue: newValue,
				})
				i++
				continue
			}

			patches = append(patches, BytePatch{
				Kind: OpDelete, OldIndex: oldStart, NewIndex: newCursor,
				OldValue: oldValue,
			})

		case diffmatchpatch.DiffInsert:
			newStart := newCursor
			newValue := append([]byte(nil), newer[newStart:newStart+runeLen]...)
			newCursor += runeLen
			patches = append(patches, BytePatch{
				Kind: OpAdd, OldIndex: oldCursor, NewIndex: newStart,
				NewValue: newValue,
			})
		}
	}

	return patches
}

// Apply reconstructs new from old by walking patches in order, copying
// unaffected spans from old and substituting each patch's NewValue.
// Patches must be in the order Diff produced them (monotonic in
// OldIndex); this mirrors how the patch archive applier consumes them.
func Apply(old []byte, patches []BytePatch) []byte {
	out := make([]byte, 0, len(old))
	oldCursor := 0

	for _, p := range patches {
		out = append(out, old[oldCursor:p.OldIndex]...)
		switch p.Kind {
		case OpDelete:
			oldCursor = p.OldIndex + len(p.OldValue)
		case OpAdd:
			out = append(out, p.NewValue...)
			oldCursor = p.OldIndex
		case OpReplace:
			out = append(out, p.NewValue...)
			oldCursor = p.OldIndex + len(p.OldValue)
		}
	}
	out = append(out, old[oldCursor:]...)
	return out
}

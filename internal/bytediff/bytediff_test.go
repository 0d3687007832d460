package bytediff

import "testing"

// TestSingleByteReplace pins the canonical worked example: old=[1,2,3,4,5],
// new=[1,2,3,4,6] must produce exactly one Replace op at index 4.
func TestSingleByteReplace(t *testing.T) {
	old := []byte{1, 2, 3, 4, 5}
	newer := []byte{1, 2, 3, 4, 6}

	patches := Diff(old, newer)
	if len(patches) != 1 {
		t.Fatalf("expected exactly 1 patch, got %d: %+v", len(patches), patches)
	}
	p := patches[0]
	if p.Kind != OpReplace {
		t.Fatalf("expected OpReplace, got %v", p.Kind)
	}
	if p.OldIndex != 4 || p.NewIndex != 4 {
		t.Fatalf("expected indices 4/4, got %d/%d", p.OldIndex, p.NewIndex)
	}
	if len(p.OldValue) != 1 || p.OldValue[0] != 5 {
		t.Fatalf("unexpected OldValue: %v", p.OldValue)
	}
	if len(p.NewValue) != 1 || p.NewValue[0] != 6 {
		t.Fatalf("unexpected NewValue: %v", p.NewValue)
	}
}

func TestIdenticalInputsProduceNoPatches(t *testing.T) {
	data := []byte("identical content")
	patches := Diff(data, data)
	if len(patches) != 0 {
		t.Fatalf("expected no patches for identical input, got %+v", patches)
	}
}

func TestPureInsertion(t *testing.T) {
	old := []byte("abc")
	new := []byte("abxc")
	patches := Diff(old, new)
	if len(patches) != 1 || patches[0].Kind != OpAdd {
		t.Fatalf("expected single Add, got %+v", patches)
	}
	if string(patches[0].NewValue) != "x" {
		t.Fatalf("unexpected insertion payload: %q", patches[0].NewValue)
	}
}

func TestPureDeletion(t *testing.T) {
	old := []byte("abxc")
	new := []byte("abc")
	patches := Diff(old, new)
	if len(patches) != 1 || patches[0].Kind != OpDelete {
		t.Fatalf("expected single Delete, got %+v", patches)
	}
	if string(patches[0].OldValue) != "x" {
		t.Fatalf("unexpected deletion payload: %q", patches[0].OldValue)
	}
}

func TestHighByteValuesSurviveDiff(t *testing.T) {
	old := []byte{0x00, 0x80, 0xFF, 0x7F, 0x01}
	new := []byte{0x00, 0x80, 0xFE, 0x7F, 0x01}

	patches := Diff(old, new)
	reconstructed := Apply(old, patches)
	if string(reconstructed) != string(new) {
		t.Fatalf("Apply(old, Diff(old,new)) = %v, want %v", reconstructed, new)
	}
}

func TestApplyRoundTrip(t *testing.T) {
	cases := [][2]string{
		{"", ""},
		{"", "abc"},
		{"abc", ""},
		{"hello world", "hello there world"},
		{"the quick brown fox", "the slow brown dog"},
	}
	for _, c := range cases {
		old, new := []byte(c[0]), []byte(c[1])
		patches := Diff(old, new)
		got := Apply(old, patches)
		if string(got) != string(new) {
			t.Fatalf("round trip failed for %q -> %q: got %q via %+v", c[0], c[1], got, patches)
		}
	}
}

package tensor

import "errors"
import "testing"

// stub satisfies Tensor without any backend.
type stub struct {
	shape []int
	dtype Dtype
}

func (s stub) Shape() []int {
	return s.shape
}

func (s stub) Dtype() Dtype {
	return s.dtype
}

type pathSet []string

func (p pathSet) Paths() []string {
	return p
}

func TestNestedAndFlatAreEquivalent(t *testing.T) {
	a := stub{shape: []int{6, 8, 2}, dtype: F32}
	b := stub{shape: []int{6, 4}, dtype: F32}

	flat, err := NewDict(map[string]any{
		"enc.obs":   a,
		"enc.state": b,
	})
	if err != nil {
		t.Fatal(err)
	}
	nested, err := NewDict(map[string]any{
		"enc": map[string]any{
			"obs":   a,
			"state": b,
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	fk, nk := flat.Keys(), nested.Keys()
	if len(fk) != 2 || len(nk) != 2 {
		t.Fatalf("keys: flat %v nested %v", fk, nk)
	}
	for i := range fk {
		if fk[i] != nk[i] {
			t.Errorf("key %d: %s != %s", i, fk[i], nk[i])
		}
	}
	if got := nested.ShallowKeys(); len(got) != 1 || got[0] != "enc" {
		t.Errorf("shallow keys: %v", got)
	}
}

func TestGetMissingKey(t *testing.T) {
	d := DictOf(map[string]Tensor{"in": stub{shape: []int{6, 2}, dtype: F32}})

	if _, err := d.Get("in"); err != nil {
		t.Fatal(err)
	}
	_, err := d.Get("bork")
	var mk *MissingKeyError
	if !errors.As(err, &mk) {
		t.Fatalf("want MissingKeyError, got %v", err)
	}
	if mk.Path != "bork" {
		t.Errorf("path: %s", mk.Path)
	}
}

func TestFilterIsIntersection(t *testing.T) {
	d := DictOf(map[string]Tensor{
		"in":   stub{shape: []int{6, 8, 2}, dtype: F32},
		"bork": stub{shape: []int{5, 4}, dtype: F32},
	})

	got := d.Filter(pathSet{"in", "ghost"})
	if got.Len() != 1 || !got.Has("in") {
		t.Fatalf("filtered keys: %v", got.Keys())
	}
	if got.Has("ghost") {
		t.Error("filter synthesized a key absent from the source")
	}
	// source untouched
	if d.Len() != 2 {
		t.Errorf("source mutated, keys: %v", d.Keys())
	}
}

func TestMergeIsRightBiased(t *testing.T) {
	a := DictOf(map[string]Tensor{
		"x": stub{shape: []int{1}, dtype: F32},
		"y": stub{shape: []int{2}, dtype: F32},
	})
	b := DictOf(map[string]Tensor{
		"y": stub{shape: []int{3}, dtype: F32},
	})

	m := a.Merge(b)
	if m.Len() != 2 {
		t.Fatalf("keys: %v", m.Keys())
	}
	y, err := m.Get("y")
	if err != nil {
		t.Fatal(err)
	}
	if y.Shape()[0] != 3 {
		t.Errorf("merge kept the left value, shape %v", y.Shape())
	}
	if a.Len() != 2 || b.Len() != 1 {
		t.Error("merge mutated an operand")
	}
}

func TestNestedRoundTrip(t *testing.T) {
	d := DictOf(map[string]Tensor{
		"a.b.c": stub{shape: []int{1}, dtype: F32},
		"a.d":   stub{shape: []int{2}, dtype: F32},
		"e":     stub{shape: []int{3}, dtype: F32},
	})

	back, err := NewDict(d.Nested())
	if err != nil {
		t.Fatal(err)
	}
	bk := back.Keys()
	dk := d.Keys()
	if len(bk) != len(dk) {
		t.Fatalf("keys: %v != %v", bk, dk)
	}
	for i := range bk {
		if bk[i] != dk[i] {
			t.Errorf("key %d: %s != %s", i, bk[i], dk[i])
		}
	}
}

func TestLeafInteriorConflictRejected(t *testing.T) {
	a := stub{shape: []int{1}, dtype: F32}

	// "a" cannot be both a tensor and a subtree
	if _, err := NewDict(map[string]any{"a": a, "a.b": a}); err == nil {
		t.Error("accepted a path that is both leaf and interior")
	}
	if _, err := NewDict(map[string]any{
		"a":   map[string]any{"b": a},
		"a.b": map[string]any{"c": a},
	}); err == nil {
		t.Error("accepted a leaf shadowed by a deeper subtree")
	}
}

func TestMergeEvictsConflictingPaths(t *testing.T) {
	a := DictOf(map[string]Tensor{"a.b": stub{shape: []int{1}, dtype: F32}})
	b := DictOf(map[string]Tensor{"a": stub{shape: []int{2}, dtype: F32}})

	m := a.Merge(b)
	if ks := m.Keys(); len(ks) != 1 || ks[0] != "a" {
		t.Fatalf("keys: %v", ks)
	}
	// and the other direction: a deeper leaf evicts the shallow one
	m = b.Merge(a)
	if ks := m.Keys(); len(ks) != 1 || ks[0] != "a.b" {
		t.Fatalf("keys: %v", ks)
	}
	// a merged dict always survives the nested round trip
	back, err := NewDict(m.Nested())
	if err != nil {
		t.Fatal(err)
	}
	if back.Len() != m.Len() {
		t.Errorf("round trip lost keys: %v != %v", back.Keys(), m.Keys())
	}
}

func TestDictOfValidatesKeys(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("accepted a key with an empty segment")
		}
	}()
	DictOf(map[string]Tensor{"a..b": stub{}})
}

func TestNewDictRejectsBadValues(t *testing.T) {
	if _, err := NewDict(map[string]any{"x": 42}); err == nil {
		t.Error("accepted a non-tensor leaf")
	}
	if _, err := NewDict(map[string]any{"": stub{}}); err == nil {
		t.Error("accepted an empty key")
	}
	if _, err := NewDict(map[string]any{"a..b": stub{}}); err == nil {
		t.Error("accepted a key with an empty segment")
	}
}

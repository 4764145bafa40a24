package tensor

import "errors"
import "fmt"
import "sort"
import "strings"

// PathSet is the read side of a spec dictionary: the sorted leaf paths it
// declares. Defined here so the container does not depend on the spec layer.
type PathSet interface {
	Paths() []string
}

// MissingKeyError reports a path absent from a dictionary.
type MissingKeyError struct {
	Path string
}

func (e *MissingKeyError) Error() string {
	return "missing key: " + e.Path
}

// Dict is a hierarchical mapping from dot-joined paths to tensors. A nested
// mapping and its flattened form construct identical dictionaries. Instances
// are immutable; Filter and Merge return new dictionaries.
type Dict struct {
	leaves map[string]Tensor
}

// EmptyDict returns a dictionary with no keys.
func EmptyDict() *Dict {
	return &Dict{leaves: map[string]Tensor{}}
}

// DictOf constructs a dictionary from a flat path to tensor mapping. The
// keys obey the same rules NewDict enforces; a bad key panics, so DictOf
// stays usable for statically known mappings.
func DictOf(m map[string]Tensor) *Dict {
	flat := make(map[string]any, len(m))
	for k, v := range m {
		flat[k] = v
	}
	return MustNewDict(flat)
}

// NewDict constructs a dictionary from a mapping whose values are tensors or
// nested mappings of the same form. Keys may themselves be dot-joined, so a
// flattened mapping and its nested equivalent produce the same dictionary.
// A path may not be both a leaf and an interior segment; that would make
// the nested form ambiguous.
func NewDict(m map[string]any) (*Dict, error) {
	d := EmptyDict()
	if err := d.insert("", m); err != nil {
		return nil, err
	}
	return d, nil
}

// MustNewDict is NewDict for statically known mappings.
func MustNewDict(m map[string]any) *Dict {
	d, err := NewDict(m)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d *Dict) insert(prefix string, m map[string]any) error {
	for k, v := range m {
		if k == "" || strings.HasPrefix(k, ".") || strings.HasSuffix(k, ".") || strings.Contains(k, "..") {
			return errors.New("invalid key: " + joinPath(prefix, k))
		}
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		switch t := v.(type) {
		case Tensor:
			if _, dup := d.leaves[path]; dup {
				return errors.New("duplicate key: " + path)
			}
			for k := range d.leaves {
				if strings.HasPrefix(k, path+".") || strings.HasPrefix(path, k+".") {
					return errors.New("key " + path + " conflicts with leaf " + k)
				}
			}
			d.leaves[path] = t
		case map[string]any:
			if err := d.insert(path, t); err != nil {
				return err
			}
		case map[string]Tensor:
			for kk, vv := range t {
				if err := d.insert(path, map[string]any{kk: vv}); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("key %s: value is neither a tensor nor a nested mapping", path)
		}
	}
	return nil
}

func joinPath(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + "." + k
}

// Get returns the tensor at path, or a MissingKeyError.
func (d *Dict) Get(path string) (Tensor, error) {
	t, ok := d.leaves[path]
	if !ok {
		return nil, &MissingKeyError{Path: path}
	}
	return t, nil
}

// Has reports whether path is present.
func (d *Dict) Has(path string) bool {
	_, ok := d.leaves[path]
	return ok
}

// Len returns the number of leaf paths.
func (d *Dict) Len() int {
	return len(d.leaves)
}

// Keys returns all leaf paths in sorted order.
func (d *Dict) Keys() []string {
	out := make([]string, 0, len(d.leaves))
	for k := range d.leaves {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ShallowKeys returns the sorted set of top-level path segments.
func (d *Dict) ShallowKeys() []string {
	seen := map[string]struct{}{}
	for k := range d.leaves {
		if i := strings.IndexByte(k, '.'); i >= 0 {
			k = k[:i]
		}
		seen[k] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Filter projects the dictionary onto the paths the spec declares. Declared
// paths absent from the source are not synthesized; their absence is the
// validator's concern, not the container's.
func (d *Dict) Filter(ps PathSet) *Dict {
	out := EmptyDict()
	for _, p := range ps.Paths() {
		if t, ok := d.leaves[p]; ok {
			out.leaves[p] = t
		}
	}
	return out
}

// Merge returns a new dictionary holding the union of both key sets, with
// the argument winning on shared paths. A leaf of the argument also evicts
// any receiver paths it overlaps as an interior segment, in either
// direction, so the result never declares a path as both leaf and interior.
func (d *Dict) Merge(other *Dict) *Dict {
	out := EmptyDict()
	for k, v := range d.leaves {
		out.leaves[k] = v
	}
	for k, v := range other.leaves {
		for kk := range out.leaves {
			if strings.HasPrefix(kk, k+".") || strings.HasPrefix(k, kk+".") {
				delete(out.leaves, kk)
			}
		}
		out.leaves[k] = v
	}
	return out
}

// Nested rebuilds the hierarchical mapping form of the dictionary.
func (d *Dict) Nested() map[string]any {
	out := map[string]any{}
	for _, k := range d.Keys() {
		segs := strings.Split(k, ".")
		m := out
		for _, s := range segs[:len(segs)-1] {
			next, ok := m[s].(map[string]any)
			if !ok {
				next = map[string]any{}
				m[s] = next
			}
			m = next
		}
		m[segs[len(segs)-1]] = d.leaves[k]
	}
	return out
}

package spec

import "errors"
import "sort"
import "strings"

// Dict is a hierarchical mapping from dot-joined paths to Specs. Like the
// tensor dictionary, nested and flattened construction forms are
// equivalent, and instances are immutable.
type Dict struct {
	specs map[string]*Spec
	paths []string // sorted
}

// EmptyDict returns a Dict declaring no paths. It is the state spec of
// every non-recurrent model.
func EmptyDict() *Dict {
	return &Dict{specs: map[string]*Spec{}}
}

// DictOf constructs a Dict from a flat path to Spec mapping. The keys obey
// the same rules NewDict enforces; a bad key panics, so DictOf stays usable
// for statically known mappings.
func DictOf(m map[string]*Spec) *Dict {
	flat := make(map[string]any, len(m))
	for k, v := range m {
		flat[k] = v
	}
	return MustNewDict(flat)
}

// NewDict constructs a Dict from a mapping whose values are Specs or nested
// mappings of the same form.
func NewDict(m map[string]any) (*Dict, error) {
	d := EmptyDict()
	if err := d.insert("", m); err != nil {
		return nil, err
	}
	d.index()
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
			return errors.New("invalid key: " + k)
		}
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		switch t := v.(type) {
		case *Spec:
			if _, dup := d.specs[path]; dup {
				return errors.New("duplicate key: " + path)
			}
			for k := range d.specs {
				if strings.HasPrefix(k, path+".") || strings.HasPrefix(path, k+".") {
					return errors.New("key " + path + " conflicts with leaf " + k)
				}
			}
			d.specs[path] = t
		case map[string]any:
			if err := d.insert(path, t); err != nil {
				return err
			}
		case map[string]*Spec:
			for kk, vv := range t {
				if err := d.insert(path, map[string]any{kk: vv}); err != nil {
					return err
				}
			}
		default:
			return errors.New("key " + path + ": value is neither a Spec nor a nested mapping")
		}
	}
	return nil
}

func (d *Dict) index() {
	d.paths = make([]string, 0, len(d.specs))
	for k := range d.specs {
		d.paths = append(d.paths, k)
	}
	sort.Strings(d.paths)
}

// Paths returns the declared leaf paths in sorted order. This implements
// tensor.PathSet, so a Dict can drive tensor dictionary filtering.
func (d *Dict) Paths() []string {
	out := make([]string, len(d.paths))
	copy(out, d.paths)
	return out
}

// Get returns the Spec at path, or nil.
func (d *Dict) Get(path string) *Spec {
	return d.specs[path]
}

// Len returns the number of declared paths.
func (d *Dict) Len() int {
	return len(d.specs)
}

package spec

import "github.com/specware/modelspec/tensor"

// binding records where a free symbol was first observed, so conflicts can
// name both sites.
type binding struct {
	value int
	path  string
}

// Validate checks every declared path of the Dict against td. Paths are
// visited in sorted order, so the first failure is deterministic. A free
// symbol binds to the first dimension observed for it anywhere in this
// call; every later occurrence must match exactly. Validation either
// returns nil or the first of:
//
//   - *tensor.MissingKeyError: a declared path is absent
//   - *ShapeMismatchError: arity, literal, fixed-symbol or binding conflict
//   - *DtypeMismatchError: declared dtype not matched
//
// A nil dictionary validates like an empty one, so a computation handing
// back nothing still fails with a typed error rather than a panic.
//
// The binding environment lives only for the duration of the call;
// Validate is safe to run concurrently against distinct dictionaries.
func (d *Dict) Validate(td *tensor.Dict) error {
	if td == nil {
		td = tensor.EmptyDict()
	}
	env := map[string]binding{}
	for _, path := range d.paths {
		sp := d.specs[path]
		t, err := td.Get(path)
		if err != nil {
			return err
		}
		shape := t.Shape()
		if len(shape) != len(sp.axes) {
			return &ShapeMismatchError{Path: path, Axis: -1, Expected: len(sp.axes), Actual: len(shape)}
		}
		for i, ax := range sp.axes {
			got := shape[i]
			if ax.name == "" || ax.value != 0 {
				// literal or fixed at Spec construction
				if got != ax.value {
					return &ShapeMismatchError{Path: path, Axis: i, Symbol: ax.name, Expected: ax.value, Actual: got}
				}
				continue
			}
			if b, bound := env[ax.name]; bound {
				if got != b.value {
					return &ShapeMismatchError{Path: path, Axis: i, Symbol: ax.name,
						Expected: b.value, Actual: got, BoundAt: b.path}
				}
				continue
			}
			env[ax.name] = binding{value: got, path: path}
		}
		if sp.dtype != tensor.Invalid && t.Dtype() != sp.dtype {
			return &DtypeMismatchError{Path: path, Expected: sp.dtype, Actual: t.Dtype()}
		}
	}
	return nil
}

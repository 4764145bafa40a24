package spec

import "fmt"

import "github.com/specware/modelspec/tensor"

func errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// ShapeMismatchError reports an axis arity or axis value conflict,
// including conflicts with a symbol bound earlier in the same validation
// call. Axis is -1 for arity mismatches.
type ShapeMismatchError struct {
	Path     string
	Axis     int
	Symbol   string // empty for literal axes and arity mismatches
	Expected int
	Actual   int
	BoundAt  string // path that first bound Symbol, empty if fixed at construction
}

func (e *ShapeMismatchError) Error() string {
	if e.Axis < 0 {
		return fmt.Sprintf("shape mismatch at %s: expected %d axes, got %d", e.Path, e.Expected, e.Actual)
	}
	name := e.Symbol
	if name == "" {
		name = fmt.Sprintf("#%d", e.Axis)
	}
	if e.BoundAt != "" {
		return fmt.Sprintf("shape mismatch at %s: axis %d (%s): expected %d (bound at %s), got %d",
			e.Path, e.Axis, name, e.Expected, e.BoundAt, e.Actual)
	}
	return fmt.Sprintf("shape mismatch at %s: axis %d (%s): expected %d, got %d",
		e.Path, e.Axis, name, e.Expected, e.Actual)
}

// DtypeMismatchError reports a dtype constraint violation.
type DtypeMismatchError struct {
	Path     string
	Expected tensor.Dtype
	Actual   tensor.Dtype
}

func (e *DtypeMismatchError) Error() string {
	return fmt.Sprintf("dtype mismatch at %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

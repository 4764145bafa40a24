// Package spec implements the axis-token shape grammar and the
// symbol-binding validator enforced at module boundaries.
//
// A Spec is written as a comma-separated list of axis tokens, one per
// tensor axis. A token is a positive integer literal, or a symbol name
// optionally fixed at construction time:
//
//	spec.MustNew("b, t, h", spec.Dim("h", 2))
//
// declares a rank-3 tensor whose last axis must be 2 and whose first two
// axes are free, but must agree with any other occurrence of "b" or "t"
// within the same validation call.
package spec

import "strconv"
import "strings"

import "github.com/specware/modelspec/tensor"

// Bind fixes one symbol of a Spec to an integer value.
type Bind struct {
	Name  string
	Value int
}

// Dim is shorthand for constructing a Bind.
func Dim(name string, value int) Bind {
	return Bind{Name: name, Value: value}
}

type axis struct {
	name  string // empty for integer literals
	value int    // 0 while the symbol is free
}

// Spec is an ordered sequence of axis tokens plus an optional dtype
// constraint. Specs are immutable once constructed.
type Spec struct {
	axes  []axis
	dtype tensor.Dtype
}

// New parses a comma-separated axis-token list. Symbols named by binds are
// fixed for this Spec only; fixing a symbol the token list does not mention
// is an error, as is any token that is not an identifier or a positive
// integer. Wildcard and variable-arity tokens are not supported.
func New(axes string, binds ...Bind) (*Spec, error) {
	s := &Spec{}
	if strings.TrimSpace(axes) != "" {
		for _, tok := range strings.Split(axes, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				return nil, errorf("empty axis token in %q", axes)
			}
			if isInteger(tok) {
				v, err := strconv.Atoi(tok)
				if err != nil || v <= 0 {
					return nil, errorf("axis literal %q must be a positive integer", tok)
				}
				s.axes = append(s.axes, axis{value: v})
				continue
			}
			if !isIdentifier(tok) {
				return nil, errorf("unsupported axis token %q", tok)
			}
			s.axes = append(s.axes, axis{name: tok})
		}
	}
	for _, b := range binds {
		if b.Value <= 0 {
			return nil, errorf("symbol %s: bound value must be positive, got %d", b.Name, b.Value)
		}
		found := false
		for i := range s.axes {
			if s.axes[i].name == b.Name {
				s.axes[i].value = b.Value
				found = true
			}
		}
		if !found {
			return nil, errorf("symbol %s is not an axis of %q", b.Name, axes)
		}
	}
	return s, nil
}

// MustNew is New for statically known axis lists.
func MustNew(axes string, binds ...Bind) *Spec {
	s, err := New(axes, binds...)
	if err != nil {
		panic(err.Error())
	}
	return s
}

// WithDtype returns a copy of the Spec that also constrains the dtype.
func (s *Spec) WithDtype(dt tensor.Dtype) *Spec {
	out := &Spec{axes: s.axes, dtype: dt}
	return out
}

// Arity returns the declared number of axes.
func (s *Spec) Arity() int {
	return len(s.axes)
}

// FixedShape returns the concrete shape when every axis is a literal or a
// construction-bound symbol. A free symbol makes the shape underdetermined
// and is reported by name.
func (s *Spec) FixedShape() ([]int, error) {
	out := make([]int, len(s.axes))
	for i, ax := range s.axes {
		if ax.value == 0 {
			return nil, errorf("axis %d (%s) is a free symbol", i, ax.name)
		}
		out[i] = ax.value
	}
	return out, nil
}

// Dtype returns the dtype constraint, or tensor.Invalid when unconstrained.
func (s *Spec) Dtype() tensor.Dtype {
	return s.dtype
}

// String renders the Spec back into the grammar, with fixed symbols shown
// as name=value.
func (s *Spec) String() string {
	var b strings.Builder
	for i, ax := range s.axes {
		if i != 0 {
			b.WriteString(", ")
		}
		switch {
		case ax.name == "":
			b.WriteString(strconv.Itoa(ax.value))
		case ax.value != 0:
			b.WriteString(ax.name)
			b.WriteByte('=')
			b.WriteString(strconv.Itoa(ax.value))
		default:
			b.WriteString(ax.name)
		}
	}
	if s.dtype != tensor.Invalid {
		b.WriteString(" :")
		b.WriteString(s.dtype.String())
	}
	return b.String()
}

func isInteger(tok string) bool {
	for _, c := range tok {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(tok) > 0
}

func isIdentifier(tok string) bool {
	for i, c := range tok {
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_':
		case '0' <= c && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return len(tok) > 0
}

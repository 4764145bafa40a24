package model

import "testing"

import "github.com/specware/modelspec/spec"
import "github.com/specware/modelspec/tensor"

// simpleForward consumes {"in": (b,2)} and produces {"out": (b,3)}.
type simpleForward struct {
	sawBork       bool
	checkedInput  int
	checkedOutput int
}

func (s *simpleForward) InputSpec() *spec.Dict {
	return spec.DictOf(map[string]*spec.Spec{"in": spec.MustNew("b, h", spec.Dim("h", 2))})
}

func (s *simpleForward) OutputSpec() *spec.Dict {
	return spec.DictOf(map[string]*spec.Spec{"out": spec.MustNew("b, h", spec.Dim("h", 3))})
}

func (s *simpleForward) ComputeForward(inputs *tensor.Dict, extra Extra) (*tensor.Dict, error) {
	if inputs.Has("bork") {
		s.sawBork = true
	}
	return tensor.DictOf(map[string]tensor.Tensor{"out": mk(B, 3)}), nil
}

func (s *simpleForward) CheckInputs(inputs *tensor.Dict) (*tensor.Dict, error) {
	s.checkedInput++
	return inputs, nil
}

func (s *simpleForward) CheckOutputs(outputs *tensor.Dict) (*tensor.Dict, error) {
	s.checkedOutput++
	return outputs, nil
}

func TestForwardUnrollAndFilter(t *testing.T) {
	comp := &simpleForward{}
	m := NewForward(comp)

	inputs := tensor.DictOf(map[string]tensor.Tensor{
		"in":   mk(B, 2),
		"bork": mk(5, 4),
	})
	outputs, next, err := m.Unroll(inputs, tensor.EmptyDict(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if comp.sawBork {
		t.Error("undeclared key reached the computation")
	}
	if ks := outputs.Keys(); len(ks) != 1 || ks[0] != "out" {
		t.Errorf("output keys: %v", ks)
	}
	if next.Len() != 0 {
		t.Errorf("next state keys: %v", next.Keys())
	}
	if comp.checkedInput != 1 || comp.checkedOutput != 1 {
		t.Errorf("hooks ran %d/%d times", comp.checkedInput, comp.checkedOutput)
	}
}

func TestForwardInitialStateIsEmpty(t *testing.T) {
	m := NewForward(&simpleForward{})

	st, err := m.InitialState()
	if err != nil {
		t.Fatal(err)
	}
	if st.Len() != 0 {
		t.Errorf("state keys: %v", st.Keys())
	}
}

func TestForwardStateIsIgnoredButValidated(t *testing.T) {
	m := NewForward(&simpleForward{})

	// extra state keys are undeclared, therefore filtered, not rejected
	_, next, err := m.Unroll(
		tensor.DictOf(map[string]tensor.Tensor{"in": mk(B, 2)}),
		tensor.DictOf(map[string]tensor.Tensor{"stale": mk(1)}),
		nil,
	)
	if err != nil {
		t.Fatal(err)
	}
	if next.Len() != 0 {
		t.Errorf("next state keys: %v", next.Keys())
	}
}

func TestForwardNameAndPersistence(t *testing.T) {
	m := NewForward(&simpleForward{})
	if m.Name() != "simpleForward" {
		t.Errorf("name: %s", m.Name())
	}
	if err := m.Save("/tmp/nope"); err == nil {
		t.Error("save succeeded without persistence")
	}
	if err := m.Load("/tmp/nope"); err == nil {
		t.Error("load succeeded without persistence")
	}
}

func TestNameOverride(t *testing.T) {
	m := NewForward(&simpleForward{}, WithName("encoder"))
	if m.Name() != "encoder" {
		t.Errorf("name: %s", m.Name())
	}
	r := New(newSimpleRecurrent(t))
	if r.Name() != "simpleRecurrent" {
		t.Errorf("name: %s", r.Name())
	}
}

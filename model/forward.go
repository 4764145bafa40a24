package model

import "github.com/specware/modelspec/spec"
import "github.com/specware/modelspec/tensor"

// ForwardComputation is the capability of a non-recurrent module. The
// adapter below lifts it into the recurrent contract with both state specs
// empty, so the same validation machinery runs unchanged.
type ForwardComputation interface {
	InputSpec() *spec.Dict
	OutputSpec() *spec.Dict

	// ComputeForward computes outputs for validated, filtered inputs.
	ComputeForward(inputs *tensor.Dict, extra Extra) (*tensor.Dict, error)
}

// ForwardInputChecker is the simplified input hook for non-recurrent
// computations.
type ForwardInputChecker interface {
	CheckInputs(inputs *tensor.Dict) (*tensor.Dict, error)
}

// ForwardOutputChecker is the simplified output hook for non-recurrent
// computations.
type ForwardOutputChecker interface {
	CheckOutputs(outputs *tensor.Dict) (*tensor.Dict, error)
}

// forwardAdapter implements Computation over a ForwardComputation.
type forwardAdapter struct {
	fc ForwardComputation
}

// NewForward wraps a non-recurrent computation in the recurrent contract.
// State in and out is always the empty dictionary.
func NewForward(fc ForwardComputation, opts ...Option) *Recurrent {
	withDefaultName := append([]Option{WithName(typeName(fc))}, opts...)
	return New(&forwardAdapter{fc: fc}, withDefaultName...)
}

func (a *forwardAdapter) InputSpec() *spec.Dict {
	return a.fc.InputSpec()
}

func (a *forwardAdapter) PrevStateSpec() *spec.Dict {
	return spec.EmptyDict()
}

func (a *forwardAdapter) OutputSpec() *spec.Dict {
	return a.fc.OutputSpec()
}

func (a *forwardAdapter) NextStateSpec() *spec.Dict {
	return spec.EmptyDict()
}

func (a *forwardAdapter) ComputeInitialState() (*tensor.Dict, error) {
	return tensor.EmptyDict(), nil
}

func (a *forwardAdapter) ComputeUnroll(inputs, prevState *tensor.Dict, extra Extra) (*tensor.Dict, *tensor.Dict, error) {
	outputs, err := a.fc.ComputeForward(inputs, extra)
	if err != nil {
		return nil, nil, err
	}
	return outputs, tensor.EmptyDict(), nil
}

func (a *forwardAdapter) CheckInputsAndPrevState(inputs, prevState *tensor.Dict) (*tensor.Dict, *tensor.Dict, error) {
	if c, ok := a.fc.(ForwardInputChecker); ok {
		out, err := c.CheckInputs(inputs)
		if err != nil {
			return nil, nil, err
		}
		return out, prevState, nil
	}
	return inputs, prevState, nil
}

func (a *forwardAdapter) CheckOutputsAndNextState(outputs, nextState *tensor.Dict) (*tensor.Dict, *tensor.Dict, error) {
	if c, ok := a.fc.(ForwardOutputChecker); ok {
		out, err := c.CheckOutputs(outputs)
		if err != nil {
			return nil, nil, err
		}
		return out, nextState, nil
	}
	return outputs, nextState, nil
}

// Save forwards persistence to the underlying computation.
func (a *forwardAdapter) Save(path string) error {
	if p, ok := a.fc.(Persistence); ok {
		return p.Save(path)
	}
	return errNoPersistence(typeName(a.fc))
}

// Load forwards persistence to the underlying computation.
func (a *forwardAdapter) Load(path string) error {
	if p, ok := a.fc.(Persistence); ok {
		return p.Load(path)
	}
	return errNoPersistence(typeName(a.fc))
}

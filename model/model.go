// Package model implements the invocation contract wrapped around user
// computation. A computation declares which named tensors it consumes and
// produces, for data and for recurrent state, and the wrapper enforces
// those declarations on every call: inputs are validated and filtered
// before they reach user code, outputs are validated before they leave it.
//
// Recurrent state is passed value-to-value (prev state in, next state out)
// and never retained between calls, so one wrapped model can serve several
// independent unroll sequences at once, provided the computation itself is
// reentrant.
package model

import "github.com/specware/modelspec/spec"
import "github.com/specware/modelspec/tensor"

// Extra is an opaque side channel handed through to the computation
// untouched. The wrapper never inspects it.
type Extra map[string]any

// Computation is the capability a recurrent module implements: four spec
// accessors plus the unroll step. Arbitrary computation happens only inside
// ComputeUnroll; everything around it belongs to the wrapper.
type Computation interface {

	// InputSpec declares the tensors ComputeUnroll consumes.
	InputSpec() *spec.Dict

	// PrevStateSpec declares the incoming recurrent state.
	PrevStateSpec() *spec.Dict

	// OutputSpec declares the tensors ComputeUnroll produces.
	OutputSpec() *spec.Dict

	// NextStateSpec declares the outgoing recurrent state.
	NextStateSpec() *spec.Dict

	// ComputeUnroll computes outputs and the next recurrent state. Inputs
	// and prevState arrive validated and filtered to the declared keys.
	ComputeUnroll(inputs, prevState *tensor.Dict, extra Extra) (outputs, nextState *tensor.Dict, err error)
}

// StateInitializer is the optional capability of computations that supply
// their own pre-first-step state. Without it the wrapper synthesizes zeros
// from NextStateSpec through the injected backend.
type StateInitializer interface {
	ComputeInitialState() (*tensor.Dict, error)
}

// Persistence is the capability of computations whose learnable parameters
// can round-trip through durable storage. Loading a checkpoint written by
// Save into a model constructed with an identical configuration must leave
// its parameters observably equal to the saved ones. The byte format is
// the backend's business.
type Persistence interface {
	Save(path string) error
	Load(path string) error
}

// InputChecker is the optional pre-computation hook. It runs after
// validation and filtering and must preserve spec conformance.
type InputChecker interface {
	CheckInputsAndPrevState(inputs, prevState *tensor.Dict) (*tensor.Dict, *tensor.Dict, error)
}

// OutputChecker is the optional post-computation hook. It runs after the
// outputs and next state have been validated.
type OutputChecker interface {
	CheckOutputsAndNextState(outputs, nextState *tensor.Dict) (*tensor.Dict, *tensor.Dict, error)
}

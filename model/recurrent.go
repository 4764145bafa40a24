package model

import "fmt"
import "strings"

import "github.com/google/uuid"
import "github.com/pkg/errors"

import "github.com/specware/modelspec/spec"
import "github.com/specware/modelspec/tensor"

// Option configures a wrapped model at construction.
type Option func(*Recurrent)

// WithName overrides the name derived from the computation's type.
func WithName(name string) Option {
	return func(r *Recurrent) {
		r.name = name
	}
}

// WithBackend injects the tensor backend used to synthesize the default
// zero initial state.
func WithBackend(b tensor.Backend) Option {
	return func(r *Recurrent) {
		r.backend = b
	}
}

// Recurrent wraps a Computation with the boundary contract. The wrapper
// owns the public entry points and the computation only sees validated,
// filtered dictionaries, so no computation can opt out of the checks.
type Recurrent struct {
	comp    Computation
	name    string
	id      uuid.UUID
	backend tensor.Backend
}

// New wraps comp. The wrapper holds no recurrent state of its own; its
// specs are fixed for its lifetime.
func New(comp Computation, opts ...Option) *Recurrent {
	r := &Recurrent{comp: comp, id: uuid.New()}
	for _, opt := range opts {
		opt(r)
	}
	if r.name == "" {
		r.name = typeName(comp)
	}
	return r
}

func typeName(v any) string {
	n := strings.TrimPrefix(fmt.Sprintf("%T", v), "*")
	if i := strings.LastIndexByte(n, '.'); i >= 0 {
		n = n[i+1:]
	}
	return n
}

// Name returns the model name.
func (r *Recurrent) Name() string {
	return r.name
}

// ID returns the identity assigned to this wrapped instance. Checkpoints
// record it so a restore can be traced to its origin.
func (r *Recurrent) ID() uuid.UUID {
	return r.id
}

// InputSpec declares the tensors Unroll consumes.
func (r *Recurrent) InputSpec() *spec.Dict { return r.comp.InputSpec() }

// PrevStateSpec declares the incoming recurrent state.
func (r *Recurrent) PrevStateSpec() *spec.Dict { return r.comp.PrevStateSpec() }

// OutputSpec declares the tensors Unroll produces.
func (r *Recurrent) OutputSpec() *spec.Dict { return r.comp.OutputSpec() }

// NextStateSpec declares the outgoing recurrent state.
func (r *Recurrent) NextStateSpec() *spec.Dict { return r.comp.NextStateSpec() }

// InitialState produces the state carried into the first Unroll of a
// sequence and validates it against NextStateSpec, so a conforming caller
// can always feed the result straight back in.
func (r *Recurrent) InitialState() (*tensor.Dict, error) {
	st, err := r.computeInitialState()
	if err != nil {
		return nil, err
	}
	if st == nil {
		st = tensor.EmptyDict()
	}
	if err := r.comp.NextStateSpec().Validate(st); err != nil {
		return nil, errors.Wrapf(err, "%s: initial state", r.name)
	}
	return st, nil
}

func (r *Recurrent) computeInitialState() (*tensor.Dict, error) {
	if si, ok := r.comp.(StateInitializer); ok {
		return si.ComputeInitialState()
	}
	return r.zeroState()
}

// zeroState synthesizes an all-zeros state from NextStateSpec. Every axis
// must be fixed; a free symbol (a batch size, typically) cannot be
// invented here.
func (r *Recurrent) zeroState() (*tensor.Dict, error) {
	sd := r.comp.NextStateSpec()
	if sd.Len() == 0 {
		return tensor.EmptyDict(), nil
	}
	if r.backend == nil {
		return nil, errors.Errorf("%s: no backend injected and computation has no ComputeInitialState", r.name)
	}
	out := map[string]tensor.Tensor{}
	for _, p := range sd.Paths() {
		sp := sd.Get(p)
		shape, err := sp.FixedShape()
		if err != nil {
			return nil, errors.Wrapf(err, "%s: state %s", r.name, p)
		}
		dt := sp.Dtype()
		if dt == tensor.Invalid {
			dt = tensor.F32
		}
		t, err := r.backend.Zeros(shape, dt)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: state %s", r.name, p)
		}
		out[p] = t
	}
	return tensor.DictOf(out), nil
}

// Unroll runs one step of the contract:
//
//  1. validate inputs and prevState against their specs
//  2. filter both down to the declared keys, hiding everything else
//  3. run the computation's input hook, if any
//  4. delegate to ComputeUnroll
//  5. validate outputs and nextState against their specs
//  6. run the computation's output hook, if any
//
// Any failure aborts the call; nothing is retried or partially applied.
func (r *Recurrent) Unroll(inputs, prevState *tensor.Dict, extra Extra) (*tensor.Dict, *tensor.Dict, error) {
	if inputs == nil {
		inputs = tensor.EmptyDict()
	}
	if prevState == nil {
		prevState = tensor.EmptyDict()
	}
	if err := r.comp.InputSpec().Validate(inputs); err != nil {
		return nil, nil, errors.Wrapf(err, "%s: inputs", r.name)
	}
	if err := r.comp.PrevStateSpec().Validate(prevState); err != nil {
		return nil, nil, errors.Wrapf(err, "%s: prev state", r.name)
	}
	inputs = inputs.Filter(r.comp.InputSpec())
	prevState = prevState.Filter(r.comp.PrevStateSpec())
	if c, ok := r.comp.(InputChecker); ok {
		var err error
		inputs, prevState, err = c.CheckInputsAndPrevState(inputs, prevState)
		if err != nil {
			return nil, nil, err
		}
		if inputs == nil {
			inputs = tensor.EmptyDict()
		}
		if prevState == nil {
			prevState = tensor.EmptyDict()
		}
	}
	outputs, nextState, err := r.comp.ComputeUnroll(inputs, prevState, extra)
	if err != nil {
		return nil, nil, err
	}
	// a computation handing back nil dicts still goes through validation
	if outputs == nil {
		outputs = tensor.EmptyDict()
	}
	if nextState == nil {
		nextState = tensor.EmptyDict()
	}
	if err := r.comp.OutputSpec().Validate(outputs); err != nil {
		return nil, nil, errors.Wrapf(err, "%s: outputs", r.name)
	}
	if err := r.comp.NextStateSpec().Validate(nextState); err != nil {
		return nil, nil, errors.Wrapf(err, "%s: next state", r.name)
	}
	if c, ok := r.comp.(OutputChecker); ok {
		outputs, nextState, err = c.CheckOutputsAndNextState(outputs, nextState)
		if err != nil {
			return nil, nil, err
		}
		if outputs == nil {
			outputs = tensor.EmptyDict()
		}
		if nextState == nil {
			nextState = tensor.EmptyDict()
		}
	}
	return outputs, nextState, nil
}

func errNoPersistence(name string) error {
	return errors.Errorf("%s: computation has no persistence", name)
}

// Save persists the computation's parameters if it carries the Persistence
// capability.
func (r *Recurrent) Save(path string) error {
	p, ok := r.comp.(Persistence)
	if !ok {
		return errNoPersistence(r.name)
	}
	return p.Save(path)
}

// Load restores the computation's parameters if it carries the Persistence
// capability.
func (r *Recurrent) Load(path string) error {
	p, ok := r.comp.(Persistence)
	if !ok {
		return errNoPersistence(r.name)
	}
	return p.Load(path)
}

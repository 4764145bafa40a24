// Package ewma implements an exponentially weighted moving average model:
// a small recurrent computation used to exercise the full boundary
// contract, including state threading and checkpoint round trips. The
// learnable parameter is a per-feature decay vector.
package ewma

import "math"

import "github.com/google/uuid"
import "github.com/pkg/errors"

import "github.com/specware/modelspec/backend/dense"
import "github.com/specware/modelspec/checkpoint"
import "github.com/specware/modelspec/model"
import "github.com/specware/modelspec/spec"
import "github.com/specware/modelspec/tensor"

// Config is the construction-time configuration. The contract layer never
// looks inside; only this package validates it.
type Config struct {
	Features int     // feature dimension d
	Batch    int     // batch size used for the initial state (default 1)
	Decay    float32 // initial decay for every feature, in [0, 1)
}

// Model smooths each feature with
//
//	mean[t] = decay*mean[t-1] + (1-decay)*x[t]
//
// consuming {"x": (b, d)} plus state {"mean": (b, d)} and producing
// {"smoothed": (b, d)} plus the updated state.
type Model struct {
	cfg   Config
	id    uuid.UUID
	decay []float32 // learnable

	inSpec    *spec.Dict
	outSpec   *spec.Dict
	stateSpec *spec.Dict
}

// New validates the config and builds the model with every feature at the
// configured initial decay.
func New(cfg Config) (*Model, error) {
	if cfg.Features <= 0 {
		return nil, errors.Errorf("features must be positive, got %d", cfg.Features)
	}
	if cfg.Batch == 0 {
		cfg.Batch = 1
	}
	if cfg.Batch < 0 {
		return nil, errors.Errorf("batch must be positive, got %d", cfg.Batch)
	}
	if cfg.Decay < 0 || cfg.Decay >= 1 {
		return nil, errors.Errorf("decay must be in [0, 1), got %v", cfg.Decay)
	}
	m := &Model{cfg: cfg, id: uuid.New(), decay: make([]float32, cfg.Features)}
	for i := range m.decay {
		m.decay[i] = cfg.Decay
	}
	bd := spec.MustNew("b, d", spec.Dim("d", cfg.Features)).WithDtype(tensor.F32)
	m.inSpec = spec.DictOf(map[string]*spec.Spec{"x": bd})
	m.outSpec = spec.DictOf(map[string]*spec.Spec{"smoothed": bd})
	m.stateSpec = spec.DictOf(map[string]*spec.Spec{"mean": bd})
	return m, nil
}

func (m *Model) InputSpec() *spec.Dict     { return m.inSpec }
func (m *Model) PrevStateSpec() *spec.Dict { return m.stateSpec }
func (m *Model) OutputSpec() *spec.Dict    { return m.outSpec }
func (m *Model) NextStateSpec() *spec.Dict { return m.stateSpec }

// Decay returns a copy of the decay vector.
func (m *Model) Decay() []float32 {
	return append([]float32(nil), m.decay...)
}

// SetDecay replaces the decay vector, as a stand-in for a training step.
func (m *Model) SetDecay(vals []float32) error {
	if len(vals) != m.cfg.Features {
		return errors.Errorf("want %d decay values, got %d", m.cfg.Features, len(vals))
	}
	copy(m.decay, vals)
	return nil
}

// ComputeInitialState returns a zero mean for the configured batch.
func (m *Model) ComputeInitialState() (*tensor.Dict, error) {
	mean, err := dense.Zeros([]int{m.cfg.Batch, m.cfg.Features}, tensor.F32)
	if err != nil {
		return nil, err
	}
	return tensor.DictOf(map[string]tensor.Tensor{"mean": mean}), nil
}

// CheckInputsAndPrevState rejects non-finite inputs before they poison the
// running mean.
func (m *Model) CheckInputsAndPrevState(inputs, prevState *tensor.Dict) (*tensor.Dict, *tensor.Dict, error) {
	x, err := inputs.Get("x")
	if err != nil {
		return nil, nil, err
	}
	xs, err := denseFloat32s("x", x)
	if err != nil {
		return nil, nil, err
	}
	for i, v := range xs {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, nil, errors.Errorf("x: non-finite value at element %d", i)
		}
	}
	return inputs, prevState, nil
}

// ComputeUnroll applies one smoothing step. The smoothed output doubles as
// the next mean.
func (m *Model) ComputeUnroll(inputs, prevState *tensor.Dict, extra model.Extra) (*tensor.Dict, *tensor.Dict, error) {
	x, err := inputs.Get("x")
	if err != nil {
		return nil, nil, err
	}
	mean, err := prevState.Get("mean")
	if err != nil {
		return nil, nil, err
	}
	xs, err := denseFloat32s("x", x)
	if err != nil {
		return nil, nil, err
	}
	ms, err := denseFloat32s("mean", mean)
	if err != nil {
		return nil, nil, err
	}
	if len(xs) != len(ms) {
		return nil, nil, errors.Errorf("x has %d elements, mean has %d", len(xs), len(ms))
	}
	d := m.cfg.Features
	out := make([]float32, len(xs))
	for i := range xs {
		a := m.decay[i%d]
		out[i] = a*ms[i] + (1-a)*xs[i]
	}
	shape := x.Shape()
	smoothed, err := dense.FromFloat32(shape, out)
	if err != nil {
		return nil, nil, err
	}
	next, err := dense.FromFloat32(shape, out)
	if err != nil {
		return nil, nil, err
	}
	return tensor.DictOf(map[string]tensor.Tensor{"smoothed": smoothed}),
		tensor.DictOf(map[string]tensor.Tensor{"mean": next}), nil
}

// Save writes the decay vector as a checkpoint.
func (m *Model) Save(path string) error {
	ck := checkpoint.New("ewma", m.id)
	ck.AddFloat32("decay", []int{m.cfg.Features}, m.decay)
	return checkpoint.WriteFile(path, ck)
}

// Load restores the decay vector from a checkpoint written by a model with
// an identical configuration.
func (m *Model) Load(path string) error {
	ck, err := checkpoint.ReadFile(path)
	if err != nil {
		return err
	}
	p := ck.Param("decay")
	if p == nil {
		return errors.New("checkpoint has no decay parameter")
	}
	if len(p.F32) != m.cfg.Features {
		return errors.Errorf("checkpoint decay has %d features, model has %d", len(p.F32), m.cfg.Features)
	}
	copy(m.decay, p.F32)
	return nil
}

func denseFloat32s(name string, t tensor.Tensor) ([]float32, error) {
	dt, ok := t.(*dense.Tensor)
	if !ok {
		return nil, errors.Errorf("%s: expected a dense tensor, got %T", name, t)
	}
	return dt.Float32s()
}

var _ model.Computation = (*Model)(nil)
var _ model.StateInitializer = (*Model)(nil)
var _ model.InputChecker = (*Model)(nil)
var _ model.Persistence = (*Model)(nil)

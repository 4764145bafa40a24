package ewma

import "math"
import "path/filepath"
import "testing"

import "github.com/specware/modelspec/backend/dense"
import "github.com/specware/modelspec/model"
import "github.com/specware/modelspec/tensor"

func newModel(t *testing.T, cfg Config) (*Model, *model.Recurrent) {
	comp, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return comp, model.New(comp, model.WithName("ewma"))
}

func inputDict(t *testing.T, batch, features int, vals []float32) *tensor.Dict {
	x, err := dense.FromFloat32([]int{batch, features}, vals)
	if err != nil {
		t.Fatal(err)
	}
	return tensor.DictOf(map[string]tensor.Tensor{"x": x})
}

func TestConfigValidation(t *testing.T) {
	if _, err := New(Config{Features: 0}); err == nil {
		t.Error("zero features accepted")
	}
	if _, err := New(Config{Features: 2, Decay: 1}); err == nil {
		t.Error("decay 1 accepted")
	}
	if _, err := New(Config{Features: 2, Decay: -0.1}); err == nil {
		t.Error("negative decay accepted")
	}
}

func TestSmoothingStep(t *testing.T) {
	_, m := newModel(t, Config{Features: 2, Batch: 1, Decay: 0.5})

	state, err := m.InitialState()
	if err != nil {
		t.Fatal(err)
	}
	outputs, next, err := m.Unroll(inputDict(t, 1, 2, []float32{4, 8}), state, nil)
	if err != nil {
		t.Fatal(err)
	}
	smoothed, err := outputs.Get("smoothed")
	if err != nil {
		t.Fatal(err)
	}
	ss, err := smoothed.(*dense.Tensor).Float32s()
	if err != nil {
		t.Fatal(err)
	}
	// mean starts at zero, so the first step halves the input
	if ss[0] != 2 || ss[1] != 4 {
		t.Errorf("smoothed: %v", ss)
	}

	outputs, _, err = m.Unroll(inputDict(t, 1, 2, []float32{4, 8}), next, nil)
	if err != nil {
		t.Fatal(err)
	}
	smoothed, _ = outputs.Get("smoothed")
	ss, _ = smoothed.(*dense.Tensor).Float32s()
	if ss[0] != 3 || ss[1] != 6 {
		t.Errorf("second step: %v", ss)
	}
}

func TestUndeclaredInputIsHidden(t *testing.T) {
	_, m := newModel(t, Config{Features: 2, Batch: 1, Decay: 0.5})

	state, err := m.InitialState()
	if err != nil {
		t.Fatal(err)
	}
	inputs := inputDict(t, 1, 2, []float32{1, 1}).Merge(tensor.DictOf(map[string]tensor.Tensor{
		"bork": dense.MustFromFloat32([]int{5, 4}, make([]float32, 20)),
	}))
	outputs, _, err := m.Unroll(inputs, state, nil)
	if err != nil {
		t.Fatal(err)
	}
	if ks := outputs.Keys(); len(ks) != 1 || ks[0] != "smoothed" {
		t.Errorf("output keys: %v", ks)
	}
}

func TestRejectsWrongFeatureDim(t *testing.T) {
	_, m := newModel(t, Config{Features: 2, Batch: 1, Decay: 0.5})

	state, err := m.InitialState()
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := m.Unroll(inputDict(t, 1, 3, []float32{1, 2, 3}), state, nil); err == nil {
		t.Error("wrong feature dim accepted")
	}
}

func TestRejectsNonFiniteInput(t *testing.T) {
	_, m := newModel(t, Config{Features: 1, Batch: 1, Decay: 0.5})

	state, err := m.InitialState()
	if err != nil {
		t.Fatal(err)
	}
	nan := float32(math.NaN())
	if _, _, err := m.Unroll(inputDict(t, 1, 1, []float32{nan}), state, nil); err == nil {
		t.Error("NaN input accepted")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ewma.cpt")

	first, m1 := newModel(t, Config{Features: 3, Decay: 0.5})
	if err := first.SetDecay([]float32{0.1, 0.2, 0.3}); err != nil {
		t.Fatal(err)
	}
	if err := m1.Save(path); err != nil {
		t.Fatal(err)
	}

	// fresh model, same config, different parameters
	second, m2 := newModel(t, Config{Features: 3, Decay: 0.9})
	if err := m2.Load(path); err != nil {
		t.Fatal(err)
	}
	got := second.Decay()
	want := first.Decay()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("decay[%d]: %v != %v", i, got[i], want[i])
		}
	}
}

func TestLoadRejectsMismatchedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ewma.cpt")

	_, m1 := newModel(t, Config{Features: 3, Decay: 0.5})
	if err := m1.Save(path); err != nil {
		t.Fatal(err)
	}
	_, m2 := newModel(t, Config{Features: 4, Decay: 0.5})
	if err := m2.Load(path); err == nil {
		t.Error("feature count mismatch accepted")
	}
}

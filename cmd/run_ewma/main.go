package main

import "flag"
import "math"
import "os"

import "github.com/specware/modelspec/backend/dense"
import "github.com/specware/modelspec/model"
import "github.com/specware/modelspec/models/ewma"
import "github.com/specware/modelspec/tensor"

func main() {

	features := flag.Int("features", 4, "feature dimension")
	batch := flag.Int("batch", 2, "batch size")
	steps := flag.Int("steps", 16, "unroll steps")
	decay := flag.Float64("decay", 0.9, "initial decay")
	dstmodel := flag.String("dstmodel", "", "model destination checkpoint file")
	resume := flag.Bool("resume", false, "load the checkpoint before running")
	flag.Parse()

	comp, err := ewma.New(ewma.Config{
		Features: *features,
		Batch:    *batch,
		Decay:    float32(*decay),
	})
	if err != nil {
		println("bad config:", err.Error())
		os.Exit(1)
	}
	if *resume && *dstmodel != "" {
		if err := comp.Load(*dstmodel); err != nil {
			println("resume failed:", err.Error())
			os.Exit(1)
		}
	}

	m := model.New(comp, model.WithName("ewma"))

	state, err := m.InitialState()
	if err != nil {
		println("initial state:", err.Error())
		os.Exit(1)
	}

	n := *batch * *features
	for step := 0; step < *steps; step++ {
		vals := make([]float32, n)
		for i := range vals {
			vals[i] = float32(math.Sin(float64(step) + float64(i)))
		}
		x := dense.MustFromFloat32([]int{*batch, *features}, vals)
		inputs := tensor.DictOf(map[string]tensor.Tensor{"x": x})

		outputs, next, err := m.Unroll(inputs, state, nil)
		if err != nil {
			println("unroll failed:", err.Error())
			os.Exit(1)
		}
		state = next

		smoothed, _ := outputs.Get("smoothed")
		ss, _ := smoothed.(*dense.Tensor).Float32s()
		println("step", step, "smoothed[0] =", int(ss[0]*1000), "/ 1000")
	}

	if *dstmodel != "" {
		if err := m.Save(*dstmodel); err != nil {
			println("save failed:", err.Error())
			os.Exit(1)
		}
		println("model saved to", *dstmodel)
	}
}

package optim_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
	"github.com/born-ml/mlp/internal/tensor"
)

// Helper to check float equality with tolerance.
func floatEqual(a, b, eps float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < eps
}

// scalarLayer builds a 1->1 identity layer with weight w and bias b.
func scalarLayer(t *testing.T, w, b float32) *nn.Layer {
	t.Helper()
	weight, err := tensor.FromFlat(1, 1, []float32{w})
	if err != nil {
		t.Fatal(err)
	}
	l, err := nn.NewLayerFromParams(weight, tensor.FromSlice([]float32{b}), nn.Identity{})
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func scalarGrad(t *testing.T, w, b float32) *nn.Gradient {
	t.Helper()
	weight, err := tensor.FromFlat(1, 1, []float32{w})
	if err != nil {
		t.Fatal(err)
	}
	return &nn.Gradient{Weight: weight, Bias: tensor.FromSlice([]float32{b})}
}

func weightOf(t *testing.T, l *nn.Layer) float32 {
	t.Helper()
	w, err := l.Weight().At(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

// TestSGD_SimpleUpdate tests SGD without momentum.
func TestSGD_SimpleUpdate(t *testing.T) {
	l := scalarLayer(t, 2.0, 0)
	opt := optim.NewSGD(optim.SGDConfig{})

	// Summed gradient 2.0 over a batch of 2 gives a mean gradient of 1.0.
	if err := opt.Step([]*nn.Layer{l}, []*nn.Gradient{scalarGrad(t, 2.0, 2.0)}, 0.1, 2); err != nil {
		t.Fatal(err)
	}

	// Expected: x_new = x_old - lr * grad = 2.0 - 0.1 * 1.0 = 1.9
	if got := weightOf(t, l); !floatEqual(got, 1.9, 1e-6) {
		t.Errorf("SGD update: got %f, want %f", got, 1.9)
	}
	b, _ := l.Bias().Get(0)
	if !floatEqual(b, -0.1, 1e-6) {
		t.Errorf("SGD bias update: got %f, want %f", b, -0.1)
	}
}

// TestSGD_WithMomentum tests SGD with momentum.
func TestSGD_WithMomentum(t *testing.T) {
	l := scalarLayer(t, 2.0, 0)
	opt := optim.NewSGD(optim.SGDConfig{Momentum: 0.9})
	layers := []*nn.Layer{l}

	// Step 1: v = 1.0, x = 2.0 - 0.1 * 1.0 = 1.9
	if err := opt.Step(layers, []*nn.Gradient{scalarGrad(t, 1, 0)}, 0.1, 1); err != nil {
		t.Fatal(err)
	}
	if got := weightOf(t, l); !floatEqual(got, 1.9, 1e-6) {
		t.Errorf("After step 1: got %f, want %f", got, 1.9)
	}

	// Step 2: v = 0.9 * 1.0 + 1.0 = 1.9, x = 1.9 - 0.1 * 1.9 = 1.71
	if err := opt.Step(layers, []*nn.Gradient{scalarGrad(t, 1, 0)}, 0.1, 1); err != nil {
		t.Fatal(err)
	}
	if got := weightOf(t, l); !floatEqual(got, 1.71, 1e-5) {
		t.Errorf("After step 2: got %f, want %f", got, 1.71)
	}

	// After a reset the next step behaves like the first one again.
	opt.Reset()
	if err := opt.Step(layers, []*nn.Gradient{scalarGrad(t, 1, 0)}, 0.1, 1); err != nil {
		t.Fatal(err)
	}
	if got := weightOf(t, l); !floatEqual(got, 1.61, 1e-5) {
		t.Errorf("After reset: got %f, want %f", got, 1.61)
	}
}

// TestSGD_MatchesGradientDescent checks that zero momentum is plain gradient descent.
func TestSGD_MatchesGradientDescent(t *testing.T) {
	a := scalarLayer(t, 0.7, -0.2)
	b := scalarLayer(t, 0.7, -0.2)
	grads := []*nn.Gradient{scalarGrad(t, 0.9, -1.5)}

	if err := optim.NewSGD(optim.SGDConfig{}).Step([]*nn.Layer{a}, grads, 0.3, 3); err != nil {
		t.Fatal(err)
	}
	if err := (nn.GradientDescent{}).Step([]*nn.Layer{b}, grads, 0.3, 3); err != nil {
		t.Fatal(err)
	}

	if !a.Weight().AllClose(b.Weight(), 1e-6) || !a.Bias().AllClose(b.Bias(), 1e-6) {
		t.Errorf("SGD: got %v %v, gradient descent: %v %v", a.Weight(), a.Bias(), b.Weight(), b.Bias())
	}
}

// TestAdam_FirstStep tests that Adam's first step moves each parameter by
// about lr in the direction opposite to its gradient.
func TestAdam_FirstStep(t *testing.T) {
	l := scalarLayer(t, 2.0, 1.0)
	opt := optim.NewAdam(optim.AdamConfig{})

	if err := opt.Step([]*nn.Layer{l}, []*nn.Gradient{scalarGrad(t, 0.5, -4)}, 0.1, 1); err != nil {
		t.Fatal(err)
	}

	// m_hat = g, v_hat = g², so the step is lr * g / |g|.
	if got := weightOf(t, l); !floatEqual(got, 1.9, 1e-5) {
		t.Errorf("Adam weight: got %f, want %f", got, 1.9)
	}
	b, _ := l.Bias().Get(0)
	if !floatEqual(b, 1.1, 1e-5) {
		t.Errorf("Adam bias: got %f, want %f", b, 1.1)
	}
	if opt.Timestep() != 1 {
		t.Errorf("Timestep: got %d, want 1", opt.Timestep())
	}
}

// TestAdam_Convergence fits y = 2x - 1 with a single linear neuron.
func TestAdam_Convergence(t *testing.T) {
	layer, err := nn.NewLayer(1, 1, nn.Identity{}, rand.NewPCG(3, 4))
	if err != nil {
		t.Fatal(err)
	}
	net, err := nn.NewNetwork(layer)
	if err != nil {
		t.Fatal(err)
	}

	var data []nn.Example
	for _, x := range []float32{-1, -0.5, 0, 0.5, 1} {
		data = append(data, nn.Example{
			Input:    tensor.FromSlice([]float32{x}),
			Expected: tensor.FromSlice([]float32{2*x - 1}),
		})
	}

	before, err := net.Cost(data)
	if err != nil {
		t.Fatal(err)
	}
	if err := net.Train(data, 300, 5, 0.05, nn.WithOptimizer(optim.NewAdam(optim.AdamConfig{}))); err != nil {
		t.Fatal(err)
	}
	after, err := net.Cost(data)
	if err != nil {
		t.Fatal(err)
	}

	if after >= before || after > 0.05 {
		t.Errorf("cost did not converge: before %f, after %f", before, after)
	}
}

func TestStep_InvalidArguments(t *testing.T) {
	l := scalarLayer(t, 1, 0)
	for _, opt := range []nn.Optimizer{optim.NewSGD(optim.SGDConfig{}), optim.NewAdam(optim.AdamConfig{})} {
		err := opt.Step([]*nn.Layer{l}, nil, 0.1, 1)
		if !errors.Is(err, nn.ErrInvalidArgument) {
			t.Errorf("%T: missing gradients: got %v", opt, err)
		}
		err = opt.Step([]*nn.Layer{l}, []*nn.Gradient{scalarGrad(t, 1, 1)}, 0.1, 0)
		if !errors.Is(err, nn.ErrInvalidArgument) {
			t.Errorf("%T: zero batch size: got %v", opt, err)
		}
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "nn.GradientDescent"},
		{"sgd", "*optim.SGD"},
		{"momentum", "*optim.SGD"},
		{"adam", "*optim.Adam"},
	}
	for _, tt := range tests {
		opt, err := optim.ByName(tt.name, 0.9)
		if err != nil {
			t.Fatalf("ByName(%q): %v", tt.name, err)
		}
		if got := typeName(opt); got != tt.want {
			t.Errorf("ByName(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}

	if _, err := optim.ByName("rmsprop", 0); !errors.Is(err, tensor.ErrUnsupported) {
		t.Errorf("ByName(rmsprop): got %v, want ErrUnsupported", err)
	}
}

func typeName(opt nn.Optimizer) string {
	switch opt.(type) {
	case nn.GradientDescent:
		return "nn.GradientDescent"
	case *optim.SGD:
		return "*optim.SGD"
	case *optim.Adam:
		return "*optim.Adam"
	default:
		return "unknown"
	}
}

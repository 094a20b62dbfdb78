package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/mlp/internal/tensor"
	"github.com/chewxy/math32"
)

// Activation is a layer nonlinearity together with its derivative.
//
// Both halves are required: a layer can only be built with an activation
// that can also be differentiated, so a missing derivative surfaces when
// the network is constructed rather than in the middle of training.
type Activation interface {
	// Name returns the configuration name (e.g., "relu").
	Name() string

	// Activate computes the activation of the pre-activation vector z.
	Activate(z *tensor.Vector) *tensor.Vector

	// Prime computes the derivative of the activation at z, element-wise.
	Prime(z *tensor.Vector) *tensor.Vector

	// DefaultInitializer returns the weight initializer tuned for this
	// activation, or nil if the caller has to choose one.
	DefaultInitializer() Initializer
}

// ReLU is the Rectified Linear Unit: f(x) = max(0, x).
//
// Weights default to He initialization. The derivative at 0 is taken as 0.
type ReLU struct{}

// Name returns "relu".
func (ReLU) Name() string { return "relu" }

// Activate applies max(0, x).
func (ReLU) Activate(z *tensor.Vector) *tensor.Vector {
	return z.Apply(func(x float32) float32 {
		if x > 0 {
			return x
		}
		return 0
	})
}

// Prime returns 1 where x > 0, otherwise 0.
func (ReLU) Prime(z *tensor.Vector) *tensor.Vector {
	return z.Apply(func(x float32) float32 {
		if x > 0 {
			return 1
		}
		return 0
	})
}

// DefaultInitializer returns HeNormal.
func (ReLU) DefaultInitializer() Initializer { return HeNormal{} }

// LeakyReLU is f(x) = x for x > 0, alpha*x otherwise.
type LeakyReLU struct {
	Alpha float32
}

// Name returns "leaky_relu".
func (LeakyReLU) Name() string { return "leaky_relu" }

// Activate applies the leaky rectifier.
func (l LeakyReLU) Activate(z *tensor.Vector) *tensor.Vector {
	return z.Apply(func(x float32) float32 {
		if x > 0 {
			return x
		}
		return l.Alpha * x
	})
}

// Prime returns 1 where x > 0, otherwise alpha.
func (l LeakyReLU) Prime(z *tensor.Vector) *tensor.Vector {
	return z.Apply(func(x float32) float32 {
		if x > 0 {
			return 1
		}
		return l.Alpha
	})
}

// DefaultInitializer returns HeNormal.
func (LeakyReLU) DefaultInitializer() Initializer { return HeNormal{} }

// Sigmoid is the logistic function σ(x) = 1 / (1 + exp(-x)).
//
// Sigmoid has no default initializer; layers using it must be built with
// WithInitializer.
type Sigmoid struct{}

// Name returns "sigmoid".
func (Sigmoid) Name() string { return "sigmoid" }

// Activate applies σ element-wise.
func (Sigmoid) Activate(z *tensor.Vector) *tensor.Vector {
	return z.Apply(sigmoid)
}

// Prime returns σ(x)·(1 - σ(x)).
func (Sigmoid) Prime(z *tensor.Vector) *tensor.Vector {
	return z.Apply(func(x float32) float32 {
		s := sigmoid(x)
		return s * (1 - s)
	})
}

// DefaultInitializer returns nil.
func (Sigmoid) DefaultInitializer() Initializer { return nil }

// Tanh is the hyperbolic tangent.
type Tanh struct{}

// Name returns "tanh".
func (Tanh) Name() string { return "tanh" }

// Activate applies tanh element-wise.
func (Tanh) Activate(z *tensor.Vector) *tensor.Vector {
	return z.Apply(math32.Tanh)
}

// Prime returns 1 - tanh²(x).
func (Tanh) Prime(z *tensor.Vector) *tensor.Vector {
	return z.Apply(func(x float32) float32 {
		t := math32.Tanh(x)
		return 1 - t*t
	})
}

// DefaultInitializer returns XavierNormal.
func (Tanh) DefaultInitializer() Initializer { return XavierNormal{} }

// SoftMax normalizes z into a probability distribution:
// s_i = exp(z_i - max(z)) / Σ_j exp(z_j - max(z)).
//
// Prime returns the diagonal of the Jacobian, s_i·(1 - s_i). Weights default
// to Xavier initialization.
type SoftMax struct{}

// Name returns "softmax".
func (SoftMax) Name() string { return "softmax" }

// Activate computes the numerically stable softmax of z.
func (SoftMax) Activate(z *tensor.Vector) *tensor.Vector {
	if z.Len() == 0 {
		return tensor.NewVector(0)
	}
	m := z.Max()
	exps := z.Apply(func(x float32) float32 { return math32.Exp(x - m) })
	sum := exps.Sum()
	return exps.Scale(1 / sum)
}

// Prime returns s·(1 - s) where s = softmax(z).
func (s SoftMax) Prime(z *tensor.Vector) *tensor.Vector {
	return s.Activate(z).Apply(func(p float32) float32 { return p * (1 - p) })
}

// DefaultInitializer returns XavierNormal.
func (SoftMax) DefaultInitializer() Initializer { return XavierNormal{} }

// Identity passes z through unchanged; useful for regression outputs.
type Identity struct{}

// Name returns "identity".
func (Identity) Name() string { return "identity" }

// Activate returns a copy of z.
func (Identity) Activate(z *tensor.Vector) *tensor.Vector { return z.Clone() }

// Prime returns a vector of ones.
func (Identity) Prime(z *tensor.Vector) *tensor.Vector {
	return z.Apply(func(float32) float32 { return 1 })
}

// DefaultInitializer returns XavierNormal.
func (Identity) DefaultInitializer() Initializer { return XavierNormal{} }

// Elementwise builds an Activation from scalar functions.
//
// A nil Derivative is allowed here but rejected by NewLayer with
// tensor.ErrUnsupported.
type Elementwise struct {
	Label       string
	Func        func(float32) float32
	Derivative  func(float32) float32
	Initializer Initializer
}

// Name returns the label.
func (e Elementwise) Name() string { return e.Label }

// Activate applies Func element-wise.
func (e Elementwise) Activate(z *tensor.Vector) *tensor.Vector { return z.Apply(e.Func) }

// Prime applies Derivative element-wise.
func (e Elementwise) Prime(z *tensor.Vector) *tensor.Vector { return z.Apply(e.Derivative) }

// DefaultInitializer returns the configured initializer (may be nil).
func (e Elementwise) DefaultInitializer() Initializer { return e.Initializer }

// Validate reports whether both functions are present.
func (e Elementwise) Validate() error {
	if e.Func == nil {
		return fmt.Errorf("activation %q: %w: no activation function", e.Label, tensor.ErrUnsupported)
	}
	if e.Derivative == nil {
		return fmt.Errorf("activation %q: %w: no derivative", e.Label, tensor.ErrUnsupported)
	}
	return nil
}

// ParseActivation resolves a configuration name to an Activation.
func ParseActivation(name string) (Activation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "relu":
		return ReLU{}, nil
	case "leaky_relu", "leakyrelu":
		return LeakyReLU{Alpha: 0.01}, nil
	case "sigmoid":
		return Sigmoid{}, nil
	case "tanh":
		return Tanh{}, nil
	case "softmax":
		return SoftMax{}, nil
	case "identity", "linear":
		return Identity{}, nil
	default:
		return nil, fmt.Errorf("activation %q: %w", name, tensor.ErrUnsupported)
	}
}

func validateActivation(act Activation) error {
	if act == nil {
		return fmt.Errorf("nil activation: %w", tensor.ErrUnsupported)
	}
	if v, ok := act.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}

func sigmoid(x float32) float32 {
	return 1 / (1 + math32.Exp(-x))
}

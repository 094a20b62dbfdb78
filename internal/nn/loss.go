package nn

import (
	"github.com/born-ml/mlp/internal/tensor"
)

// Cost measures how far a network output is from the expected output.
type Cost interface {
	// Value returns the cost of a single example.
	Value(output, expected *tensor.Vector) (float32, error)

	// Gradient returns ∂C/∂output for a single example.
	Gradient(output, expected *tensor.Vector) (*tensor.Vector, error)
}

// QuadraticCost is the half squared error:
//
//	C = ½ Σ (output_i - expected_i)²
//
// Its gradient with respect to the output is simply output - expected.
type QuadraticCost struct{}

// Value computes ½‖output - expected‖².
func (QuadraticCost) Value(output, expected *tensor.Vector) (float32, error) {
	diff, err := output.Sub(expected)
	if err != nil {
		return 0, err
	}
	sq, err := diff.Dot(diff)
	if err != nil {
		return 0, err
	}
	return 0.5 * sq, nil
}

// Gradient computes output - expected.
func (QuadraticCost) Gradient(output, expected *tensor.Vector) (*tensor.Vector, error) {
	return output.Sub(expected)
}

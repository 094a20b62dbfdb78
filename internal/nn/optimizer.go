package nn

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument reports a training call with unusable parameters
// (non-positive epochs, batch size or learning rate, empty data).
var ErrInvalidArgument = errors.New("invalid argument")

// Optimizer turns the summed gradients of one mini-batch into parameter
// updates applied through Layer.Update.
//
// grads[i] belongs to layers[i] and is the sum (not the mean) over the
// batch's batchSize examples.
type Optimizer interface {
	Step(layers []*Layer, grads []*Gradient, lr float32, batchSize int) error
}

// GradientDescent is plain mini-batch gradient descent:
//
//	W = W - lr/batchSize * ΣgW
//	b = b - lr/batchSize * Σgb
type GradientDescent struct{}

// Step applies the update to every layer.
func (GradientDescent) Step(layers []*Layer, grads []*Gradient, lr float32, batchSize int) error {
	if len(grads) != len(layers) {
		return fmt.Errorf("GradientDescent.Step: %w: %d gradients for %d layers",
			ErrInvalidArgument, len(grads), len(layers))
	}
	if batchSize <= 0 {
		return fmt.Errorf("GradientDescent.Step: %w: batch size %d", ErrInvalidArgument, batchSize)
	}

	scale := lr / float32(batchSize)
	for i, l := range layers {
		w, err := l.weight.Sub(grads[i].Weight.Scale(scale))
		if err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
		b, err := l.biases.Sub(grads[i].Bias.Scale(scale))
		if err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
		if err := l.Update(w, b); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return nil
}

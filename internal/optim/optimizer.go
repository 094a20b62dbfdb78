// Package optim implements update rules for training networks.
//
// This package provides:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Both implement nn.Optimizer and are passed to Network.Train with
// nn.WithOptimizer. Without one, training uses plain nn.GradientDescent.
//
// Example usage:
//
//	opt := optim.NewSGD(optim.SGDConfig{Momentum: 0.9})
//	err := net.Train(data, epochs, 32, 0.05, nn.WithOptimizer(opt))
package optim

import (
	"fmt"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/tensor"
)

// Optimizer is the update-rule contract consumed by nn.Network.Train.
type Optimizer = nn.Optimizer

// ByName builds an optimizer from its configuration name.
// momentum is only used by "sgd".
func ByName(name string, momentum float32) (nn.Optimizer, error) {
	switch name {
	case "", "gd", "gradient_descent":
		return nn.GradientDescent{}, nil
	case "sgd", "momentum":
		return NewSGD(SGDConfig{Momentum: momentum}), nil
	case "adam":
		return NewAdam(AdamConfig{}), nil
	default:
		return nil, fmt.Errorf("optimizer %q: %w", name, tensor.ErrUnsupported)
	}
}

// checkStep validates the arguments shared by every Step implementation.
func checkStep(layers []*nn.Layer, grads []*nn.Gradient, batchSize int) error {
	if len(grads) != len(layers) {
		return fmt.Errorf("%w: %d gradients for %d layers", nn.ErrInvalidArgument, len(grads), len(layers))
	}
	if batchSize <= 0 {
		return fmt.Errorf("%w: batch size %d", nn.ErrInvalidArgument, batchSize)
	}
	return nil
}

// apply subtracts (dW, dB) from the layer's parameters.
func apply(l *nn.Layer, dW *tensor.Matrix, dB *tensor.Vector) error {
	w, err := l.Weight().Sub(dW)
	if err != nil {
		return err
	}
	b, err := l.Bias().Sub(dB)
	if err != nil {
		return err
	}
	return l.Update(w, b)
}

package optim

import (
	"fmt"

	"github.com/born-ml/mlp/internal/nn"
)

// SGD implements Stochastic Gradient Descent with optional momentum.
//
// g is the mean gradient of the mini-batch (the summed gradient divided by
// the batch size).
//
// Update rule without momentum:
//
//	param = param - lr * g
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + g
//	param = param - lr * velocity
//
// Example:
//
//	opt := optim.NewSGD(optim.SGDConfig{Momentum: 0.9})
//	err := net.Train(data, 30, 10, 0.5, nn.WithOptimizer(opt))
type SGD struct {
	momentum   float32
	velocities map[*nn.Layer]*nn.Gradient
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	Momentum float32 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	return &SGD{
		momentum:   config.Momentum,
		velocities: make(map[*nn.Layer]*nn.Gradient),
	}
}

// Step performs a single optimization step.
//
// Velocity is tracked per layer, so an SGD value must not be shared between
// networks that are trained concurrently.
func (s *SGD) Step(layers []*nn.Layer, grads []*nn.Gradient, lr float32, batchSize int) error {
	if err := checkStep(layers, grads, batchSize); err != nil {
		return fmt.Errorf("SGD.Step: %w", err)
	}

	inv := 1 / float32(batchSize)
	for i, l := range layers {
		g := grads[i].Scale(inv)

		if s.momentum > 0 {
			v, ok := s.velocities[l]
			if !ok {
				// First step: velocity = g
				v = g
			} else {
				var err error
				v, err = v.Scale(s.momentum).Add(g)
				if err != nil {
					return fmt.Errorf("layer %d: %w", i, err)
				}
			}
			s.velocities[l] = v
			g = v
		}

		if err := apply(l, g.Weight.Scale(lr), g.Bias.Scale(lr)); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return nil
}

// Momentum returns the momentum factor.
func (s *SGD) Momentum() float32 {
	return s.momentum
}

// Reset drops the accumulated velocities.
func (s *SGD) Reset() {
	clear(s.velocities)
}

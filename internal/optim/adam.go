package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/tensor"
	"github.com/chewxy/math32"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// g is the mean gradient of the mini-batch. Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * g             // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * g²            // Second moment
//	m_hat = m_t / (1 - beta1^t)                       // Bias correction
//	v_hat = v_t / (1 - beta2^t)                       // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)  // Parameter update
//
// The learning rate is the one passed to Network.Train; Adam typically
// wants something around 0.001.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	beta1   float32
	beta2   float32
	eps     float32
	t       int                   // Timestep for bias correction
	moments map[*nn.Layer]*moment // First and second moment estimates
}

// moment holds the flattened moment estimates of one layer: weights first,
// then biases.
type moment struct {
	m []float32
	v []float32
}

// AdamConfig holds configuration for the Adam optimizer.
type AdamConfig struct {
	Betas [2]float32 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps   float32    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer.
//
// Default hyperparameters:
//   - Beta1: 0.9
//   - Beta2: 0.999
//   - Eps: 1e-8
func NewAdam(config AdamConfig) *Adam {
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &Adam{
		beta1:   config.Betas[0],
		beta2:   config.Betas[1],
		eps:     config.Eps,
		moments: make(map[*nn.Layer]*moment),
	}
}

// Step performs a single optimization step using the Adam algorithm.
func (a *Adam) Step(layers []*nn.Layer, grads []*nn.Gradient, lr float32, batchSize int) error {
	if err := checkStep(layers, grads, batchSize); err != nil {
		return fmt.Errorf("Adam.Step: %w", err)
	}

	a.t++

	// bias_correction = 1 - beta^t
	bc1 := 1 - float32(math.Pow(float64(a.beta1), float64(a.t)))
	bc2 := 1 - float32(math.Pow(float64(a.beta2), float64(a.t)))
	inv := 1 / float32(batchSize)

	for i, l := range layers {
		gw := grads[i].Weight.Data()
		gb := grads[i].Bias.Data()
		n := len(gw) + len(gb)

		st, ok := a.moments[l]
		if !ok {
			st = &moment{m: make([]float32, n), v: make([]float32, n)}
			a.moments[l] = st
		}
		if len(st.m) != n {
			return fmt.Errorf("layer %d: %w: moment size %d, gradient size %d",
				i, tensor.ErrShapeMismatch, len(st.m), n)
		}

		step := make([]float32, n)
		for j := range n {
			var g float32
			if j < len(gw) {
				g = gw[j] * inv
			} else {
				g = gb[j-len(gw)] * inv
			}

			st.m[j] = a.beta1*st.m[j] + (1-a.beta1)*g
			st.v[j] = a.beta2*st.v[j] + (1-a.beta2)*g*g

			mHat := st.m[j] / bc1
			vHat := st.v[j] / bc2
			step[j] = lr * mHat / (math32.Sqrt(vHat) + a.eps)
		}

		dW, err := tensor.FromFlat(l.OutputSize(), l.InputSize(), step[:len(gw)])
		if err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
		if err := apply(l, dW, tensor.FromSlice(step[len(gw):])); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return nil
}

// Timestep returns the number of steps taken so far.
func (a *Adam) Timestep() int {
	return a.t
}

// Reset drops the moment estimates and the timestep.
func (a *Adam) Reset() {
	a.t = 0
	clear(a.moments)
}

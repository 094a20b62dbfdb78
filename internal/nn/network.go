// Package nn implements the feed-forward network layer of the framework.
//
// This package provides:
//   - Activation: ReLU, LeakyReLU, Sigmoid, Tanh, SoftMax, Identity
//   - Initializer: HeNormal, XavierNormal, XavierUniform, Zeros
//   - Layer: dense layer with hand-derived forward/backward passes
//   - Network: ordered layers with mini-batch gradient descent training
//
// Per-call intermediate values live in Trace values instead of layer
// fields, which keeps Forward free of side effects and lets the gradients
// of one mini-batch be computed in parallel.
package nn

import (
	"fmt"

	"github.com/born-ml/mlp/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// Network is an ordered, fixed sequence of layers.
//
// Each layer's output becomes the next layer's input. Layer count and sizes
// cannot change after NewNetwork; only the parameters are updated by
// training.
//
// Example:
//
//	src := rand.NewPCG(1, 2)
//	l1, _ := nn.NewLayer(2, 8, nn.ReLU{}, src)
//	l2, _ := nn.NewLayer(8, 1, nn.Sigmoid{}, src, nn.WithInitializer(nn.XavierUniform{}))
//	net, _ := nn.NewNetwork(l1, l2)
//	out, err := net.Forward(tensor.FromSlice([]float32{0, 1}))
type Network struct {
	layers []*Layer
	cost   Cost
}

// NewNetwork creates a network from layers.
//
// Returns an error wrapping tensor.ErrShapeMismatch when the output size of
// a layer differs from the input size of the next one.
func NewNetwork(layers ...*Layer) (*Network, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("NewNetwork: %w: no layers", ErrInvalidArgument)
	}
	for i, l := range layers {
		if l == nil {
			return nil, fmt.Errorf("NewNetwork: %w: layer %d is nil", ErrInvalidArgument, i)
		}
		if i > 0 && layers[i-1].outputSize != l.inputSize {
			return nil, fmt.Errorf("NewNetwork: layer %d: %w",
				i, &tensor.ShapeError{Op: "NewNetwork", Left: tensor.Shape{layers[i-1].outputSize}, Right: tensor.Shape{l.inputSize}})
		}
	}

	owned := make([]*Layer, len(layers))
	copy(owned, layers)
	return &Network{layers: owned, cost: QuadraticCost{}}, nil
}

// Forward threads input through every layer and returns the last output.
func (n *Network) Forward(input *tensor.Vector) (*tensor.Vector, error) {
	out, _, err := n.forward(input)
	return out, err
}

// forward runs all layers and returns one trace per layer.
func (n *Network) forward(input *tensor.Vector) (*tensor.Vector, []*Trace, error) {
	if input.Len() != n.layers[0].inputSize {
		return nil, nil, &tensor.ShapeError{Op: "Network.Forward", Left: tensor.Shape{n.layers[0].inputSize}, Right: input.Shape()}
	}

	traces := make([]*Trace, len(n.layers))
	x := input
	for i, l := range n.layers {
		out, tr, err := l.Forward(x)
		if err != nil {
			return nil, nil, fmt.Errorf("layer %d: %w", i, err)
		}
		traces[i] = tr
		x = out
	}
	return x, traces, nil
}

// Backprop computes the per-layer gradients of the cost for one example.
//
// It runs a full forward pass, then walks the layers from last to first:
// the output layer's error comes from the cost, every other layer's error
// from the layer after it.
func (n *Network) Backprop(ex Example) ([]*Gradient, error) {
	_, traces, err := n.forward(ex.Input)
	if err != nil {
		return nil, err
	}

	last := len(n.layers) - 1
	delta, err := n.layers[last].OutputDelta(traces[last], ex.Expected, n.cost)
	if err != nil {
		return nil, fmt.Errorf("layer %d: %w", last, err)
	}

	grads := make([]*Gradient, len(n.layers))
	for i := last; i >= 0; i-- {
		var prev *Layer
		var prevTrace *Trace
		if i > 0 {
			prev, prevTrace = n.layers[i-1], traces[i-1]
		}
		back, g, err := n.layers[i].Backward(traces[i], delta, prev, prevTrace)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		grads[i] = g
		delta = back
	}
	return grads, nil
}

// Cost returns the mean cost over data.
func (n *Network) Cost(data []Example) (float64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("Network.Cost: %w: empty data", ErrInvalidArgument)
	}
	costs := make([]float64, len(data))
	for i, ex := range data {
		out, err := n.Forward(ex.Input)
		if err != nil {
			return 0, fmt.Errorf("example %d: %w", i, err)
		}
		c, err := n.cost.Value(out, ex.Expected)
		if err != nil {
			return 0, fmt.Errorf("example %d: %w", i, err)
		}
		costs[i] = float64(c)
	}
	return floats.Sum(costs) / float64(len(costs)), nil
}

// Accuracy returns the fraction of examples whose output argmax matches the
// expected argmax. Single-output networks count an example as correct when
// output and expectation fall on the same side of 0.5.
func (n *Network) Accuracy(data []Example) (float64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("Network.Accuracy: %w: empty data", ErrInvalidArgument)
	}
	correct := 0
	for i, ex := range data {
		out, err := n.Forward(ex.Input)
		if err != nil {
			return 0, fmt.Errorf("example %d: %w", i, err)
		}
		if sameClass(out, ex.Expected) {
			correct++
		}
	}
	return float64(correct) / float64(len(data)), nil
}

func sameClass(out, expected *tensor.Vector) bool {
	if out.Len() == 1 && expected.Len() == 1 {
		o, _ := out.Get(0)
		e, _ := expected.Get(0)
		return (o >= 0.5) == (e >= 0.5)
	}
	return out.ArgMax() == expected.ArgMax()
}

// Len returns the number of layers.
func (n *Network) Len() int {
	return len(n.layers)
}

// Layer returns the layer at index i, or nil if out of range.
func (n *Network) Layer(i int) *Layer {
	if i < 0 || i >= len(n.layers) {
		return nil
	}
	return n.layers[i]
}

// Layers returns a copy of the layer list.
func (n *Network) Layers() []*Layer {
	out := make([]*Layer, len(n.layers))
	copy(out, n.layers)
	return out
}

// InputSize returns the input width of the first layer.
func (n *Network) InputSize() int {
	return n.layers[0].inputSize
}

// OutputSize returns the output width of the last layer.
func (n *Network) OutputSize() int {
	return n.layers[len(n.layers)-1].outputSize
}

package nn

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/mlp/internal/tensor"
)

// Layer is a fully connected (dense) layer.
//
// Performs the transformation: output = activation(W·x + b)
// where:
//   - x is the input vector with length in
//   - W is the weight matrix with shape [out, in]
//   - b is the bias vector with length out
//
// A Layer only holds its parameters. The intermediate values of a call
// (input, pre-activation, output, error) are returned in a Trace, so one
// Layer can serve several forward passes at once as long as nobody calls
// Update concurrently.
type Layer struct {
	inputSize  int
	outputSize int
	weight     *tensor.Matrix // [out, in]
	biases     *tensor.Vector // [out]
	activation Activation
}

// Trace holds the values computed by one forward/backward call of a layer.
type Trace struct {
	Input  *tensor.Vector // x
	Z      *tensor.Vector // W·x + b
	Output *tensor.Vector // activation(z)
	Delta  *tensor.Vector // ∂C/∂z, set by Backward
}

// LayerOption customizes NewLayer.
type LayerOption func(*layerOptions)

type layerOptions struct {
	init Initializer
}

// WithInitializer overrides the activation's default weight initializer.
func WithInitializer(init Initializer) LayerOption {
	return func(o *layerOptions) {
		o.init = init
	}
}

// NewLayer creates a layer with in inputs and out outputs.
//
// Weights are sampled from src with the activation's default initializer
// (He for ReLU, Xavier for SoftMax) unless WithInitializer is given.
// Activations without a default (Sigmoid) require WithInitializer and fail
// with tensor.ErrUnsupported otherwise. Biases are initialized to zeros.
//
// Example:
//
//	src := rand.NewPCG(42, 0)
//	hidden, err := nn.NewLayer(784, 128, nn.ReLU{}, src)
//	out, err := nn.NewLayer(128, 10, nn.Sigmoid{}, src, nn.WithInitializer(nn.XavierUniform{}))
func NewLayer(in, out int, act Activation, src rand.Source, opts ...LayerOption) (*Layer, error) {
	if in <= 0 || out <= 0 {
		return nil, fmt.Errorf("NewLayer: %w: sizes must be positive, got %dx%d",
			tensor.ErrShapeMismatch, out, in)
	}
	if err := validateActivation(act); err != nil {
		return nil, fmt.Errorf("NewLayer: %w", err)
	}
	if src == nil {
		return nil, fmt.Errorf("NewLayer: %w: nil random source", ErrInvalidArgument)
	}

	o := layerOptions{init: act.DefaultInitializer()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.init == nil {
		return nil, fmt.Errorf("NewLayer: %w: no weight initializer for %s activation",
			tensor.ErrUnsupported, act.Name())
	}

	return &Layer{
		inputSize:  in,
		outputSize: out,
		weight:     o.init.Sample(out, in, src),
		biases:     tensor.NewVector(out),
		activation: act,
	}, nil
}

// NewLayerFromParams creates a layer from explicit parameters.
// The layer keeps copies of weight and bias.
func NewLayerFromParams(weight *tensor.Matrix, bias *tensor.Vector, act Activation) (*Layer, error) {
	if err := validateActivation(act); err != nil {
		return nil, fmt.Errorf("NewLayerFromParams: %w", err)
	}
	if weight.NumRows() == 0 || weight.NumCols() == 0 {
		return nil, fmt.Errorf("NewLayerFromParams: %w: empty weight %v",
			tensor.ErrShapeMismatch, weight.Shape())
	}
	if bias.Len() != weight.NumRows() {
		return nil, &tensor.ShapeError{Op: "NewLayerFromParams", Left: weight.Shape(), Right: bias.Shape()}
	}
	return &Layer{
		inputSize:  weight.NumCols(),
		outputSize: weight.NumRows(),
		weight:     weight.Clone(),
		biases:     bias.Clone(),
		activation: act,
	}, nil
}

// Forward computes activation(W·input + b).
//
// Returns the output and the trace needed by Backward.
func (l *Layer) Forward(input *tensor.Vector) (*tensor.Vector, *Trace, error) {
	if input.Len() != l.inputSize {
		return nil, nil, &tensor.ShapeError{Op: "Layer.Forward", Left: tensor.Shape{l.inputSize}, Right: input.Shape()}
	}

	wx, err := l.weight.MatVec(input)
	if err != nil {
		return nil, nil, err
	}
	z, err := wx.Add(l.biases)
	if err != nil {
		return nil, nil, err
	}
	output := l.activation.Activate(z)

	return output, &Trace{
		Input:  input.Clone(),
		Z:      z,
		Output: output,
	}, nil
}

// OutputDelta computes the error of an output layer:
//
//	δ = cost'(output, expected) ⊙ activation'(z)
func (l *Layer) OutputDelta(tr *Trace, expected *tensor.Vector, cost Cost) (*tensor.Vector, error) {
	if tr == nil || tr.Z == nil || tr.Output == nil {
		return nil, errors.New("Layer.OutputDelta: trace has no forward values")
	}
	grad, err := cost.Gradient(tr.Output, expected)
	if err != nil {
		return nil, fmt.Errorf("Layer.OutputDelta: %w", err)
	}
	return grad.Hadamard(l.activation.Prime(tr.Z))
}

// Backward records delta (this layer's ∂C/∂z) in tr and returns:
//   - the error for the previous layer: (Wᵀ·δ) ⊙ prev.activation'(prevTrace.Z),
//     or plain Wᵀ·δ (∂C/∂input) when prev is nil
//   - this layer's gradient: weight = δ ⊗ input, bias = δ
func (l *Layer) Backward(tr *Trace, delta *tensor.Vector, prev *Layer, prevTrace *Trace) (*tensor.Vector, *Gradient, error) {
	if tr == nil || tr.Input == nil {
		return nil, nil, errors.New("Layer.Backward: trace has no forward values")
	}
	if delta.Len() != l.outputSize {
		return nil, nil, &tensor.ShapeError{Op: "Layer.Backward", Left: tensor.Shape{l.outputSize}, Right: delta.Shape()}
	}
	tr.Delta = delta

	grad := &Gradient{
		Weight: delta.Outer(tr.Input),
		Bias:   delta.Clone(),
	}

	back, err := l.weight.Transpose().MatVec(delta)
	if err != nil {
		return nil, nil, err
	}
	if prev == nil {
		return back, grad, nil
	}
	if prevTrace == nil || prevTrace.Z == nil {
		return nil, nil, errors.New("Layer.Backward: previous trace has no forward values")
	}
	back, err = back.Hadamard(prev.activation.Prime(prevTrace.Z))
	if err != nil {
		return nil, nil, fmt.Errorf("Layer.Backward: %w", err)
	}
	return back, grad, nil
}

// Update replaces the weight and bias with copies of the given values.
// Nothing is replaced when either shape differs from the current one.
func (l *Layer) Update(weight *tensor.Matrix, bias *tensor.Vector) error {
	if !weight.Shape().Equal(l.weight.Shape()) {
		return &tensor.ShapeError{Op: "Layer.Update", Left: l.weight.Shape(), Right: weight.Shape()}
	}
	if bias.Len() != l.outputSize {
		return &tensor.ShapeError{Op: "Layer.Update", Left: l.biases.Shape(), Right: bias.Shape()}
	}
	l.weight = weight.Clone()
	l.biases = bias.Clone()
	return nil
}

// Weight returns a copy of the weight matrix.
func (l *Layer) Weight() *tensor.Matrix {
	return l.weight.Clone()
}

// Bias returns a copy of the bias vector.
func (l *Layer) Bias() *tensor.Vector {
	return l.biases.Clone()
}

// Activation returns the layer's activation.
func (l *Layer) Activation() Activation {
	return l.activation
}

// InputSize returns the number of inputs.
func (l *Layer) InputSize() int {
	return l.inputSize
}

// OutputSize returns the number of outputs.
func (l *Layer) OutputSize() int {
	return l.outputSize
}

// String describes the layer as "relu(3->2)".
func (l *Layer) String() string {
	return fmt.Sprintf("%s(%d->%d)", l.activation.Name(), l.inputSize, l.outputSize)
}

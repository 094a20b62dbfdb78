// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"log/slog"
	"math/rand/v2"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/parallel"
	"github.com/born-ml/mlp/tensor"
)

// ErrInvalidArgument reports unusable training parameters.
var ErrInvalidArgument = nn.ErrInvalidArgument

// Layer

// Layer is a fully connected layer: output = act(W·x + b).
type Layer = nn.Layer

// Trace holds the working values of one Forward/Backward call on a Layer.
type Trace = nn.Trace

// LayerOption configures NewLayer.
type LayerOption = nn.LayerOption

// Gradient holds ∂C/∂W and ∂C/∂b for one layer.
type Gradient = nn.Gradient

// NewLayer creates a layer with weights sampled from src.
//
// The activation's default initializer is used unless WithInitializer
// overrides it; Sigmoid has none and requires WithInitializer.
//
// Example:
//
//	l, err := nn.NewLayer(3, 2, nn.Sigmoid{}, src, nn.WithInitializer(nn.XavierUniform{}))
func NewLayer(in, out int, act Activation, src rand.Source, opts ...LayerOption) (*Layer, error) {
	return nn.NewLayer(in, out, act, src, opts...)
}

// NewLayerFromParams creates a layer from explicit parameters.
func NewLayerFromParams(weight *tensor.Matrix, bias *tensor.Vector, act Activation) (*Layer, error) {
	return nn.NewLayerFromParams(weight, bias, act)
}

// WithInitializer overrides the activation's default weight initializer.
func WithInitializer(init Initializer) LayerOption {
	return nn.WithInitializer(init)
}

// ZeroGradient returns a zero gradient shaped like l.
func ZeroGradient(l *Layer) *Gradient {
	return nn.ZeroGradient(l)
}

// Activations

// Activation is an element-wise nonlinearity with its derivative.
type Activation = nn.Activation

// ReLU is max(0, x).
type ReLU = nn.ReLU

// LeakyReLU is x for x > 0 and Alpha*x otherwise.
type LeakyReLU = nn.LeakyReLU

// Sigmoid is 1 / (1 + e^-x).
type Sigmoid = nn.Sigmoid

// Tanh is the hyperbolic tangent.
type Tanh = nn.Tanh

// SoftMax normalizes a vector into a probability distribution.
type SoftMax = nn.SoftMax

// Identity passes values through unchanged.
type Identity = nn.Identity

// Elementwise builds an activation from a scalar function and its derivative.
type Elementwise = nn.Elementwise

// ParseActivation resolves a configuration name such as "relu" or "softmax".
func ParseActivation(name string) (Activation, error) {
	return nn.ParseActivation(name)
}

// Initializers

// Initializer samples initial weight matrices.
type Initializer = nn.Initializer

// HeNormal samples N(0, 2/fanIn).
type HeNormal = nn.HeNormal

// XavierNormal samples N(0, 1/fanIn).
type XavierNormal = nn.XavierNormal

// XavierUniform samples U(-a, a) with a = sqrt(6/(fanIn+fanOut)).
type XavierUniform = nn.XavierUniform

// Zeros fills weights with zero.
type Zeros = nn.Zeros

// ParseInitializer resolves a configuration name such as "he" or "xavier".
func ParseInitializer(name string) (Initializer, error) {
	return nn.ParseInitializer(name)
}

// Cost

// Cost measures how far an output is from its expected value.
type Cost = nn.Cost

// QuadraticCost is ½‖output − expected‖².
type QuadraticCost = nn.QuadraticCost

// Network

// Network is an ordered stack of layers.
type Network = nn.Network

// Example is one training input paired with its expected output.
type Example = nn.Example

// EpochStats summarizes one training epoch.
type EpochStats = nn.EpochStats

// NewNetwork creates a network from layers whose sizes chain.
func NewNetwork(layers ...*Layer) (*Network, error) {
	return nn.NewNetwork(layers...)
}

// Training

// Optimizer turns summed mini-batch gradients into parameter updates.
type Optimizer = nn.Optimizer

// GradientDescent is the default update rule: W -= lr/batch * ΣgW.
type GradientDescent = nn.GradientDescent

// TrainOption configures Network.Train.
type TrainOption = nn.TrainOption

// ParallelConfig controls the gradient fan-out of WithParallel.
type ParallelConfig = parallel.Config

// Sequential computes gradients on the calling goroutine.
func Sequential() ParallelConfig {
	return parallel.Sequential()
}

// DefaultParallel uses one worker per physical core.
func DefaultParallel() ParallelConfig {
	return parallel.DefaultConfig()
}

// ParallelWorkers uses n workers; n <= 1 is sequential.
func ParallelWorkers(n int) ParallelConfig {
	return parallel.WithWorkers(n)
}

// WithShuffle shuffles the training order every epoch using src.
func WithShuffle(src rand.Source) TrainOption {
	return nn.WithShuffle(src)
}

// WithParallel computes per-example gradients concurrently.
func WithParallel(cfg ParallelConfig) TrainOption {
	return nn.WithParallel(cfg)
}

// WithOptimizer replaces GradientDescent.
func WithOptimizer(opt Optimizer) TrainOption {
	return nn.WithOptimizer(opt)
}

// WithLogger logs one debug record per epoch.
func WithLogger(logger *slog.Logger) TrainOption {
	return nn.WithLogger(logger)
}

// WithEvaluation evaluates cost and accuracy on data after every epoch.
func WithEvaluation(data []Example) TrainOption {
	return nn.WithEvaluation(data)
}

// WithEpochHook calls fn after every epoch.
func WithEpochHook(fn func(EpochStats)) TrainOption {
	return nn.WithEpochHook(fn)
}

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides fully connected layers and feed-forward networks
// trained with mini-batch gradient descent.
//
// # Overview
//
// This package contains:
//   - Layer: weight matrix, bias vector and activation
//   - Activations: ReLU, LeakyReLU, Sigmoid, Tanh, SoftMax, Identity
//   - Initializers: HeNormal, XavierNormal, XavierUniform, Zeros
//   - Network: ordered layers with Forward, Backprop and Train
//   - Cost: QuadraticCost
//
// # Basic Usage
//
//	import (
//	    "math/rand/v2"
//
//	    "github.com/born-ml/mlp/nn"
//	)
//
//	func main() {
//	    src := rand.NewPCG(1, 2)
//
//	    hidden, _ := nn.NewLayer(784, 30, nn.ReLU{}, src)
//	    out, _ := nn.NewLayer(30, 10, nn.SoftMax{}, src)
//	    net, _ := nn.NewNetwork(hidden, out)
//
//	    err := net.Train(examples, 30, 10, 0.5,
//	        nn.WithShuffle(rand.NewPCG(3, 4)),
//	        nn.WithParallel(nn.DefaultParallel()),
//	    )
//	}
//
// # Randomness
//
// Nothing in this package reads a global random source. Weight
// initialization and shuffling draw from the rand.Source passed in, so a
// run is reproduced by reusing the same seeds.
//
// # Concurrency
//
// A Layer holds only its parameters. Forward and Backward work on a Trace
// owned by the caller, so one network can evaluate many inputs concurrently
// as long as no Update runs at the same time. WithParallel uses this to
// compute the per-example gradients of a mini-batch on several goroutines;
// the gradients are summed in example order, so the result does not depend
// on the worker count.
package nn

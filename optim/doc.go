// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - ByName: optimizer lookup for configuration files
//
// Every optimizer implements nn.Optimizer and is handed to training with
// nn.WithOptimizer. The learning rate stays an argument of Network.Train.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/mlp/nn"
//	    "github.com/born-ml/mlp/optim"
//	)
//
//	func main() {
//	    opt := optim.NewAdam(optim.AdamConfig{})
//	    err := net.Train(data, 10, 32, 0.001, nn.WithOptimizer(opt))
//	}
//
// # State
//
// SGD with momentum and Adam keep per-layer state between steps. Use one
// optimizer value per network, and call Reset before reusing it on a fresh
// run.
package optim

package nn

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/born-ml/mlp/internal/parallel"
	"github.com/born-ml/mlp/internal/tensor"
)

// Example is one (input, expected output) training pair.
type Example struct {
	Input    *tensor.Vector
	Expected *tensor.Vector
}

// EpochStats summarizes one finished training epoch.
type EpochStats struct {
	Epoch    int // 1-based
	Batches  int
	Duration time.Duration

	// Set only when WithEvaluation was given.
	Evaluated    bool
	TestCost     float64
	TestAccuracy float64
}

// TrainOption customizes Network.Train.
type TrainOption func(*trainOptions)

type trainOptions struct {
	shuffle   rand.Source
	parallel  parallel.Config
	optimizer Optimizer
	logger    *slog.Logger
	testSet   []Example
	onEpoch   func(EpochStats)
}

// WithShuffle shuffles the training set at the start of every epoch using
// src. Without it, batches are taken in data order.
func WithShuffle(src rand.Source) TrainOption {
	return func(o *trainOptions) { o.shuffle = src }
}

// WithParallel computes the per-example gradients of each mini-batch with
// cfg. Gradients are still summed in example order, so the resulting
// weights are identical to a sequential run.
func WithParallel(cfg parallel.Config) TrainOption {
	return func(o *trainOptions) { o.parallel = cfg }
}

// WithOptimizer replaces plain GradientDescent.
func WithOptimizer(opt Optimizer) TrainOption {
	return func(o *trainOptions) { o.optimizer = opt }
}

// WithLogger sets the logger used for per-epoch records.
func WithLogger(logger *slog.Logger) TrainOption {
	return func(o *trainOptions) { o.logger = logger }
}

// WithEvaluation evaluates cost and accuracy on data after every epoch.
func WithEvaluation(data []Example) TrainOption {
	return func(o *trainOptions) { o.testSet = data }
}

// WithEpochHook calls fn after every epoch.
func WithEpochHook(fn func(EpochStats)) TrainOption {
	return func(o *trainOptions) { o.onEpoch = fn }
}

// Train runs mini-batch stochastic gradient descent.
//
// For every epoch the (optionally shuffled) data is split into consecutive
// batches of batchSize examples, the last one possibly smaller, and each
// batch is applied with one optimizer step. The first error aborts the
// run; no example is skipped.
func (n *Network) Train(data []Example, epochs, batchSize int, lr float32, opts ...TrainOption) error {
	switch {
	case len(data) == 0:
		return fmt.Errorf("Network.Train: %w: empty training set", ErrInvalidArgument)
	case epochs <= 0:
		return fmt.Errorf("Network.Train: %w: epochs must be > 0 (got %d)", ErrInvalidArgument, epochs)
	case batchSize <= 0:
		return fmt.Errorf("Network.Train: %w: batch size must be > 0 (got %d)", ErrInvalidArgument, batchSize)
	case lr <= 0:
		return fmt.Errorf("Network.Train: %w: learning rate must be > 0 (got %g)", ErrInvalidArgument, lr)
	}

	o := trainOptions{
		parallel:  parallel.Sequential(),
		optimizer: GradientDescent{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	var rng *rand.Rand
	if o.shuffle != nil {
		rng = rand.New(o.shuffle)
	}

	order := make([]Example, len(data))
	copy(order, data)

	for epoch := 1; epoch <= epochs; epoch++ {
		start := time.Now()
		if rng != nil {
			rng.Shuffle(len(order), func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
		}

		batches := 0
		for lo := 0; lo < len(order); lo += batchSize {
			hi := min(lo+batchSize, len(order))
			if err := n.updateMiniBatch(order[lo:hi], lr, o.optimizer, o.parallel); err != nil {
				return fmt.Errorf("epoch %d, batch %d: %w", epoch, batches, err)
			}
			batches++
		}

		stats := EpochStats{Epoch: epoch, Batches: batches, Duration: time.Since(start)}
		attrs := []any{
			slog.Int("epoch", epoch),
			slog.Int("batches", batches),
			slog.Duration("elapsed", stats.Duration),
		}
		if len(o.testSet) > 0 {
			cost, err := n.Cost(o.testSet)
			if err != nil {
				return fmt.Errorf("epoch %d: evaluation: %w", epoch, err)
			}
			acc, err := n.Accuracy(o.testSet)
			if err != nil {
				return fmt.Errorf("epoch %d: evaluation: %w", epoch, err)
			}
			stats.Evaluated, stats.TestCost, stats.TestAccuracy = true, cost, acc
			attrs = append(attrs, slog.Float64("test_cost", cost), slog.Float64("test_accuracy", acc))
		}
		logger.Debug("epoch complete", attrs...)

		if o.onEpoch != nil {
			o.onEpoch(stats)
		}
	}
	return nil
}

// UpdateMiniBatch applies one gradient descent step computed over batch:
// every layer moves by -lr/len(batch) times its summed gradient.
func (n *Network) UpdateMiniBatch(batch []Example, lr float32) error {
	return n.updateMiniBatch(batch, lr, GradientDescent{}, parallel.Sequential())
}

// BatchGradient returns the per-layer gradients summed over batch.
func (n *Network) BatchGradient(batch []Example, cfg parallel.Config) ([]*Gradient, error) {
	perExample, err := parallel.Map(len(batch), func(i int) ([]*Gradient, error) {
		grads, err := n.Backprop(batch[i])
		if err != nil {
			return nil, fmt.Errorf("example %d: %w", i, err)
		}
		return grads, nil
	}, cfg)
	if err != nil {
		return nil, err
	}
	return sumGradients(n.layers, perExample)
}

func (n *Network) updateMiniBatch(batch []Example, lr float32, opt Optimizer, cfg parallel.Config) error {
	if len(batch) == 0 {
		return fmt.Errorf("Network.UpdateMiniBatch: %w: empty batch", ErrInvalidArgument)
	}
	sums, err := n.BatchGradient(batch, cfg)
	if err != nil {
		return err
	}
	return opt.Step(n.layers, sums, lr, len(batch))
}

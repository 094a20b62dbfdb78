// Package main provides the mlp command line tool.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/born-ml/mlp/internal/config"
	"github.com/born-ml/mlp/internal/dataset"
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/parallel"
)

const version = "v0.1.0-dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "mlp:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "mlp %s\n", version)
		return nil
	case "train":
		return train(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	default:
		usage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "mlp - feed-forward networks trained with mini-batch SGD")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  train      Train a network described by a YAML config")
	fmt.Fprintln(w, "  version    Show version")
}

func train(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "", "Path to YAML config (built-in XOR run when empty)")
	epochs := fs.Int("epochs", 0, "Number of epochs")
	batchSize := fs.Int("batch-size", 0, "Mini-batch size")
	lr := fs.Float64("lr", 0, "Learning rate")
	seed := fs.Uint64("seed", 0, "PRNG seed")
	workers := fs.Int("workers", 0, "Gradient workers per mini-batch")
	data := fs.String("dataset", "", "Dataset: xor or a CSV path")
	verbose := fs.Bool("v", false, "Debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	cfg.ApplyOverrides(config.Overrides{
		Seed:         *seed,
		Epochs:       *epochs,
		BatchSize:    *batchSize,
		LearningRate: float32(*lr),
		Workers:      *workers,
		Dataset:      *data,
	})
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// One PCG stream per concern so changing the split does not change the
	// initial weights.
	net, err := cfg.BuildNetwork(rand.NewPCG(cfg.Seed, 1))
	if err != nil {
		return fmt.Errorf("build network: %w", err)
	}
	opt, err := cfg.BuildOptimizer()
	if err != nil {
		return err
	}

	examples, err := dataset.Load(cfg.Dataset, net.InputSize(), net.OutputSize())
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	trainSet, testSet, err := dataset.Split(examples, cfg.TestFraction, rand.NewPCG(cfg.Seed, 2))
	if err != nil {
		return err
	}
	evalSet := testSet
	if len(evalSet) == 0 {
		evalSet = trainSet
	}

	logger.Info("training",
		slog.String("dataset", cfg.Dataset),
		slog.Int("train", len(trainSet)),
		slog.Int("test", len(testSet)),
		slog.Int("layers", net.Len()),
		slog.Int("epochs", cfg.Epochs),
		slog.Int("batch_size", cfg.BatchSize),
		slog.Float64("lr", float64(cfg.LearningRate)),
		slog.String("optimizer", cfg.Optimizer),
		slog.Int("workers", cfg.Workers),
	)

	err = net.Train(trainSet, cfg.Epochs, cfg.BatchSize, cfg.LearningRate,
		nn.WithShuffle(rand.NewPCG(cfg.Seed, 3)),
		nn.WithParallel(parallel.WithWorkers(cfg.Workers)),
		nn.WithOptimizer(opt),
		nn.WithLogger(logger.With(slog.String("component", "train"))),
		nn.WithEpochHook(func(s nn.EpochStats) {
			if s.Epoch%cfg.LogEvery != 0 && s.Epoch != cfg.Epochs {
				return
			}
			cost, err := net.Cost(evalSet)
			if err != nil {
				logger.Error("evaluate", slog.Any("err", err))
				return
			}
			logger.Info("progress", slog.Int("epoch", s.Epoch), slog.Float64("cost", cost))
		}),
	)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	cost, err := net.Cost(evalSet)
	if err != nil {
		return err
	}
	acc, err := net.Accuracy(evalSet)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "cost=%.6f accuracy=%.4f\n", cost, acc)
	return nil
}

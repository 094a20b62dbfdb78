package nn

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/born-ml/mlp/internal/tensor"
	"gonum.org/v1/gonum/stat/distuv"
)

// Initializer samples the initial weight matrix of a layer.
//
// The random source is always supplied by the caller, so two networks built
// from sources with the same seed start from identical weights.
type Initializer interface {
	// Name returns the configuration name (e.g., "he").
	Name() string

	// Sample returns a rows×cols matrix (rows = fan-out, cols = fan-in).
	Sample(rows, cols int, src rand.Source) *tensor.Matrix
}

// HeNormal (Kaiming) initialization for ReLU-family layers.
//
// Weights are drawn from N(0, 2/fan_in).
type HeNormal struct{}

// Name returns "he".
func (HeNormal) Name() string { return "he" }

// Sample draws from N(0, sqrt(2/fan_in)²).
func (HeNormal) Sample(rows, cols int, src rand.Source) *tensor.Matrix {
	return sampleMatrix(rows, cols, distuv.Normal{
		Mu:    0,
		Sigma: math.Sqrt(2.0 / float64(cols)),
		Src:   src,
	})
}

// XavierNormal initialization, used for SoftMax and Tanh layers.
//
// Weights are drawn from N(0, 1/fan_in).
type XavierNormal struct{}

// Name returns "xavier".
func (XavierNormal) Name() string { return "xavier" }

// Sample draws from N(0, sqrt(1/fan_in)²).
func (XavierNormal) Sample(rows, cols int, src rand.Source) *tensor.Matrix {
	return sampleMatrix(rows, cols, distuv.Normal{
		Mu:    0,
		Sigma: math.Sqrt(1.0 / float64(cols)),
		Src:   src,
	})
}

// XavierUniform (Glorot) initialization.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// This keeps the activation variance roughly constant across layers and is
// the usual choice for Sigmoid layers.
type XavierUniform struct{}

// Name returns "xavier_uniform".
func (XavierUniform) Name() string { return "xavier_uniform" }

// Sample draws from the Glorot uniform range.
func (XavierUniform) Sample(rows, cols int, src rand.Source) *tensor.Matrix {
	bound := math.Sqrt(6.0 / float64(rows+cols))
	return sampleMatrix(rows, cols, distuv.Uniform{
		Min: -bound,
		Max: bound,
		Src: src,
	})
}

// Zeros initializes all weights to zero. Only useful in tests: a network
// with all-zero weights cannot break symmetry.
type Zeros struct{}

// Name returns "zeros".
func (Zeros) Name() string { return "zeros" }

// Sample returns a zero matrix.
func (Zeros) Sample(rows, cols int, _ rand.Source) *tensor.Matrix {
	return tensor.NewMatrix(rows, cols)
}

// ParseInitializer resolves a configuration name. The empty string yields
// (nil, nil), meaning "use the activation's default".
func ParseInitializer(name string) (Initializer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return nil, nil
	case "he", "kaiming", "he_normal":
		return HeNormal{}, nil
	case "xavier", "glorot", "xavier_normal":
		return XavierNormal{}, nil
	case "xavier_uniform", "glorot_uniform":
		return XavierUniform{}, nil
	case "zeros":
		return Zeros{}, nil
	default:
		return nil, fmt.Errorf("initializer %q: %w", name, tensor.ErrUnsupported)
	}
}

type sampler interface {
	Rand() float64
}

// sampleMatrix fills a matrix in row-major order from dist.
func sampleMatrix(rows, cols int, dist sampler) *tensor.Matrix {
	data := make([]float32, rows*cols)
	for i := range data {
		data[i] = float32(dist.Rand())
	}
	m, err := tensor.FromFlat(rows, cols, data)
	if err != nil {
		panic(err) // rows*cols elements by construction
	}
	return m
}

package nn

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/born-ml/mlp/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStats(m *tensor.Matrix) (mean, variance float64) {
	data := m.Data()
	for _, x := range data {
		mean += float64(x)
	}
	mean /= float64(len(data))
	for _, x := range data {
		d := float64(x) - mean
		variance += d * d
	}
	variance /= float64(len(data))
	return mean, variance
}

func TestHeNormal_Variance(t *testing.T) {
	const fanIn = 50
	m := HeNormal{}.Sample(2000, fanIn, rand.NewPCG(1, 1))

	assert.Equal(t, tensor.Shape{2000, fanIn}, m.Shape())
	mean, variance := sampleStats(m)
	assert.InDelta(t, 0, mean, 0.01)
	assert.InDelta(t, 2.0/fanIn, variance, 0.05*2.0/fanIn)
}

func TestXavierNormal_Variance(t *testing.T) {
	const fanIn = 40
	m := XavierNormal{}.Sample(2500, fanIn, rand.NewPCG(2, 2))

	mean, variance := sampleStats(m)
	assert.InDelta(t, 0, mean, 0.01)
	assert.InDelta(t, 1.0/fanIn, variance, 0.05*1.0/fanIn)
}

func TestXavierUniform_Bounds(t *testing.T) {
	m := XavierUniform{}.Sample(30, 20, rand.NewPCG(3, 3))
	bound := float32(math.Sqrt(6.0 / 50.0))

	for _, x := range m.Data() {
		assert.LessOrEqual(t, x, bound)
		assert.GreaterOrEqual(t, x, -bound)
	}
}

func TestInitializer_Reproducible(t *testing.T) {
	for _, init := range []Initializer{HeNormal{}, XavierNormal{}, XavierUniform{}} {
		a := init.Sample(4, 5, rand.NewPCG(42, 7))
		b := init.Sample(4, 5, rand.NewPCG(42, 7))
		c := init.Sample(4, 5, rand.NewPCG(43, 7))

		assert.True(t, a.Equal(b), "%s: same seed must give same weights", init.Name())
		assert.False(t, a.Equal(c), "%s: different seeds should differ", init.Name())
	}
}

func TestZerosInitializer(t *testing.T) {
	m := Zeros{}.Sample(2, 3, nil)
	assert.Equal(t, make([]float32, 6), m.Data())
}

func TestParseInitializer(t *testing.T) {
	init, err := ParseInitializer("")
	require.NoError(t, err)
	assert.Nil(t, init)

	for name, want := range map[string]string{
		"he":             "he",
		"kaiming":        "he",
		"xavier":         "xavier",
		"glorot_uniform": "xavier_uniform",
		"zeros":          "zeros",
	} {
		init, err := ParseInitializer(name)
		require.NoError(t, err)
		assert.Equal(t, want, init.Name())
	}

	_, err = ParseInitializer("orthogonal")
	assert.ErrorIs(t, err, tensor.ErrUnsupported)
}

package nn

import (
	"github.com/born-ml/mlp/internal/tensor"
)

// Gradient holds ∂C/∂W and ∂C/∂b for one layer.
type Gradient struct {
	Weight *tensor.Matrix // [out, in]
	Bias   *tensor.Vector // [out]
}

// ZeroGradient returns a zero gradient shaped like l.
func ZeroGradient(l *Layer) *Gradient {
	return &Gradient{
		Weight: tensor.NewMatrix(l.outputSize, l.inputSize),
		Bias:   tensor.NewVector(l.outputSize),
	}
}

// Add returns g + other.
func (g *Gradient) Add(other *Gradient) (*Gradient, error) {
	w, err := g.Weight.Add(other.Weight)
	if err != nil {
		return nil, err
	}
	b, err := g.Bias.Add(other.Bias)
	if err != nil {
		return nil, err
	}
	return &Gradient{Weight: w, Bias: b}, nil
}

// Scale returns g multiplied by s.
func (g *Gradient) Scale(s float32) *Gradient {
	return &Gradient{
		Weight: g.Weight.Scale(s),
		Bias:   g.Bias.Scale(s),
	}
}

// sumGradients adds per-example gradients layer by layer, in example order.
func sumGradients(layers []*Layer, perExample [][]*Gradient) ([]*Gradient, error) {
	sums := make([]*Gradient, len(layers))
	for i, l := range layers {
		sums[i] = ZeroGradient(l)
	}
	for _, grads := range perExample {
		for i, g := range grads {
			s, err := sums[i].Add(g)
			if err != nil {
				return nil, err
			}
			sums[i] = s
		}
	}
	return sums, nil
}

// Package dataset provides training sets for the CLI: the built-in XOR
// problem and numeric CSV files.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/tensor"
)

// ErrFormat reports a CSV file that does not match the requested layout.
var ErrFormat = errors.New("dataset: bad format")

// XOR returns the four examples of the exclusive-or truth table.
func XOR() []nn.Example {
	rows := [][3]float32{
		{0, 0, 0},
		{0, 1, 1},
		{1, 0, 1},
		{1, 1, 0},
	}
	data := make([]nn.Example, len(rows))
	for i, r := range rows {
		data[i] = nn.Example{
			Input:    tensor.FromSlice(r[:2]),
			Expected: tensor.FromSlice(r[2:]),
		}
	}
	return data
}

// Load resolves a dataset name the way the CLI accepts it: "xor" is the
// built-in set, a directory holds the MNIST training files, anything else
// is a CSV path.
func Load(name string, inputs, outputs int) ([]nn.Example, error) {
	if strings.EqualFold(name, "xor") {
		if inputs != 2 || outputs != 1 {
			return nil, fmt.Errorf("%w: xor needs a 2-input, 1-output network (got %d, %d)",
				tensor.ErrShapeMismatch, inputs, outputs)
		}
		return XOR(), nil
	}

	if info, err := os.Stat(name); err == nil && info.IsDir() {
		data, err := LoadMNIST(name, true, 0)
		if err != nil {
			return nil, err
		}
		if len(data) > 0 && (data[0].Input.Len() != inputs || data[0].Expected.Len() != outputs) {
			return nil, fmt.Errorf("%w: %s has %d inputs and %d outputs, network has %d and %d",
				tensor.ErrShapeMismatch, name, data[0].Input.Len(), data[0].Expected.Len(), inputs, outputs)
		}
		return data, nil
	}
	return LoadCSV(name, inputs, outputs)
}

// LoadCSV loads examples from a CSV file.
//
// CSV Format:
//
//	x0,x1,...,x{inputs-1},y0,...,y{outputs-1}
//
// or, for classification, a single integer label in [0, outputs) after the
// inputs, which is one-hot encoded:
//
//	x0,x1,...,x{inputs-1},label
//
// A first row that does not parse as numbers is treated as a header.
func LoadCSV(filename string, inputs, outputs int) ([]nn.Example, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := ReadCSV(file, inputs, outputs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ReadCSV parses examples from r. See LoadCSV for the format.
func ReadCSV(r io.Reader, inputs, outputs int) ([]nn.Example, error) {
	if inputs <= 0 || outputs <= 0 {
		return nil, fmt.Errorf("%w: inputs and outputs must be > 0 (got %d, %d)", ErrFormat, inputs, outputs)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(records) > 0 && !numeric(records[0]) {
		records = records[1:] // Skip header row
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrFormat)
	}

	data := make([]nn.Example, 0, len(records))
	for i, record := range records {
		ex, err := parseRecord(record, inputs, outputs)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		data = append(data, ex)
	}
	return data, nil
}

func parseRecord(record []string, inputs, outputs int) (nn.Example, error) {
	switch len(record) {
	case inputs + outputs:
		values, err := parseFloats(record)
		if err != nil {
			return nn.Example{}, err
		}
		return nn.Example{
			Input:    tensor.FromSlice(values[:inputs]),
			Expected: tensor.FromSlice(values[inputs:]),
		}, nil

	case inputs + 1:
		values, err := parseFloats(record[:inputs])
		if err != nil {
			return nn.Example{}, err
		}
		label, err := strconv.Atoi(strings.TrimSpace(record[inputs]))
		if err != nil {
			return nn.Example{}, fmt.Errorf("%w: invalid label: %w", ErrFormat, err)
		}
		if label < 0 || label >= outputs {
			return nn.Example{}, fmt.Errorf("%w: label out of range [0, %d): %d", ErrFormat, outputs, label)
		}
		expected := tensor.NewVector(outputs)
		if err := expected.Set(label, 1); err != nil {
			return nn.Example{}, err
		}
		return nn.Example{Input: tensor.FromSlice(values), Expected: expected}, nil

	default:
		return nn.Example{}, fmt.Errorf("%w: invalid record length: got %d, want %d or %d",
			ErrFormat, len(record), inputs+outputs, inputs+1)
	}
}

func parseFloats(fields []string) ([]float32, error) {
	values := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return nil, fmt.Errorf("%w: column %d: %w", ErrFormat, i, err)
		}
		values[i] = float32(v)
	}
	return values, nil
}

func numeric(record []string) bool {
	for _, f := range record {
		if _, err := strconv.ParseFloat(strings.TrimSpace(f), 64); err != nil {
			return false
		}
	}
	return true
}

// Split shuffles a copy of data with src and returns (train, test), where
// test holds round(fraction * len(data)) examples. A zero fraction returns
// all of data as the training set and no test set. src may be nil to keep
// the original order.
func Split(data []nn.Example, fraction float64, src rand.Source) (train, test []nn.Example, err error) {
	if fraction < 0 || fraction >= 1 {
		return nil, nil, fmt.Errorf("%w: test fraction must be in [0, 1) (got %g)", nn.ErrInvalidArgument, fraction)
	}

	shuffled := make([]nn.Example, len(data))
	copy(shuffled, data)
	if src != nil {
		rand.New(src).Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
	}

	n := int(fraction*float64(len(shuffled)) + 0.5)
	if n >= len(shuffled) && n > 0 {
		n = len(shuffled) - 1
	}
	cut := len(shuffled) - n
	return shuffled[:cut], shuffled[cut:], nil
}

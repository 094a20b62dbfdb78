package dataset

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/tensor"
)

const (
	idxImagesMagic = 2051
	idxLabelsMagic = 2049
)

// MNIST file names inside a data directory.
const (
	MNISTTrainImages = "train-images-idx3-ubyte"
	MNISTTrainLabels = "train-labels-idx1-ubyte"
	MNISTTestImages  = "t10k-images-idx3-ubyte"
	MNISTTestLabels  = "t10k-labels-idx1-ubyte"
)

// LoadMNIST loads the MNIST training or test set from the official IDX
// files in dir. Pixels are scaled to [0, 1], labels are one-hot encoded
// over 10 classes. maxSamples <= 0 loads everything.
//
// Download MNIST from: http://yann.lecun.com/exdb/mnist/
func LoadMNIST(dir string, train bool, maxSamples int) ([]nn.Example, error) {
	imageFile, labelFile := MNISTTestImages, MNISTTestLabels
	if train {
		imageFile, labelFile = MNISTTrainImages, MNISTTrainLabels
	}

	images, err := os.Open(filepath.Join(dir, imageFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	defer images.Close()

	labels, err := os.Open(filepath.Join(dir, labelFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}
	defer labels.Close()

	return ReadIDX(images, labels, 10, maxSamples)
}

// ReadIDX pairs an IDX image stream with an IDX label stream.
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes
//	number of cols: 4 bytes
//	pixel data: unsigned bytes (0-255)
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes
func ReadIDX(images, labels io.Reader, classes, maxSamples int) ([]nn.Example, error) {
	pixels, size, err := readIDXImages(images)
	if err != nil {
		return nil, err
	}
	raw, err := readIDXLabels(labels)
	if err != nil {
		return nil, err
	}
	if len(pixels) != len(raw) {
		return nil, fmt.Errorf("%w: image count (%d) != label count (%d)", ErrFormat, len(pixels), len(raw))
	}

	n := len(pixels)
	if maxSamples > 0 && n > maxSamples {
		n = maxSamples
	}

	data := make([]nn.Example, n)
	for i := range n {
		input := make([]float32, size)
		for j, p := range pixels[i] {
			input[j] = float32(p) / 255.0
		}

		label := int(raw[i])
		if label >= classes {
			return nil, fmt.Errorf("%w: label %d at sample %d out of range [0, %d)", ErrFormat, label, i, classes)
		}
		expected := tensor.NewVector(classes)
		if err := expected.Set(label, 1); err != nil {
			return nil, err
		}
		data[i] = nn.Example{Input: tensor.FromSlice(input), Expected: expected}
	}
	return data, nil
}

func readIDXImages(r io.Reader) ([][]byte, int, error) {
	var header [4]uint32 // magic, count, rows, cols
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, 0, fmt.Errorf("failed to read image header: %w", err)
	}
	if header[0] != idxImagesMagic {
		return nil, 0, fmt.Errorf("%w: invalid magic number: got %d, want %d", ErrFormat, header[0], idxImagesMagic)
	}

	size := int(header[2] * header[3])
	images := make([][]byte, header[1])
	for i := range images {
		images[i] = make([]byte, size)
		if _, err := io.ReadFull(r, images[i]); err != nil {
			return nil, 0, fmt.Errorf("failed to read image %d: %w", i, err)
		}
	}
	return images, size, nil
}

func readIDXLabels(r io.Reader) ([]byte, error) {
	var header [2]uint32 // magic, count
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read label header: %w", err)
	}
	if header[0] != idxLabelsMagic {
		return nil, fmt.Errorf("%w: invalid magic number: got %d, want %d", ErrFormat, header[0], idxLabelsMagic)
	}

	labels := make([]byte, header[1])
	if _, err := io.ReadFull(r, labels); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	return labels, nil
}

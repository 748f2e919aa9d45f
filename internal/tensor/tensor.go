// Package tensor converts canonical grayscale images into normalized
// (channel, row, column) float tensors.
package tensor

import (
	"errors"
	"fmt"
	"image"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Epsilon is the smallest standard deviation treated as non-constant.
const Epsilon = 1e-8

// ErrShapeMismatch is returned when an image does not have the expected size.
var ErrShapeMismatch = errors.New("image shape mismatch")

// Tensor is a dense CHW tensor stored row-major in Data.
type Tensor struct {
	Channels int
	Rows     int
	Cols     int
	Data     []float64
}

// New allocates a zeroed tensor of the given shape.
func New(channels, rows, cols int) *Tensor {
	return &Tensor{
		Channels: channels,
		Rows:     rows,
		Cols:     cols,
		Data:     make([]float64, channels*rows*cols),
	}
}

// Shape returns (channels, rows, cols).
func (t *Tensor) Shape() [3]int { return [3]int{t.Channels, t.Rows, t.Cols} }

// Len returns the number of samples.
func (t *Tensor) Len() int { return len(t.Data) }

// Bytes returns the memory held by Data.
func (t *Tensor) Bytes() int { return len(t.Data) * 8 }

func (t *Tensor) index(c, y, x int) int { return (c*t.Rows+y)*t.Cols + x }

// At returns the value at channel c, row y, column x.
func (t *Tensor) At(c, y, x int) float64 { return t.Data[t.index(c, y, x)] }

// Set stores v at channel c, row y, column x.
func (t *Tensor) Set(c, y, x int, v float64) { t.Data[t.index(c, y, x)] = v }

// Channel returns a rows x cols matrix view sharing storage with channel c.
func (t *Tensor) Channel(c int) *mat.Dense {
	plane := t.Rows * t.Cols
	return mat.NewDense(t.Rows, t.Cols, t.Data[c*plane:(c+1)*plane])
}

// FromGray copies img into a (1, H, W) tensor with values in [0, 255].
func FromGray(img *image.Gray) *Tensor {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	t := New(1, h, w)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t.Set(0, y, x, float64(img.GrayAt(b.Min.X+x, b.Min.Y+y).Y))
		}
	}
	return t
}

// Normalize rescales t in place to zero mean and unit population standard
// deviation, computed over every channel together. A constant tensor becomes
// all zeros.
func Normalize(t *Tensor) {
	if len(t.Data) == 0 {
		return
	}

	mean, std := stat.PopMeanStdDev(t.Data, nil)
	for c := 0; c < t.Channels; c++ {
		m := t.Channel(c)
		if std < Epsilon {
			m.Zero()
			continue
		}
		m.Apply(func(_, _ int, v float64) float64 { return (v - mean) / std }, m)
	}
}

// Tensorize converts every image to a normalized (1, height, width) tensor.
func Tensorize(images []*image.Gray, width, height int) ([]*Tensor, error) {
	out := make([]*Tensor, 0, len(images))
	for i, img := range images {
		b := img.Bounds()
		if b.Dx() != width || b.Dy() != height {
			return nil, fmt.Errorf("%w: image %d is %dx%d, expected %dx%d",
				ErrShapeMismatch, i, b.Dx(), b.Dy(), width, height)
		}

		t := FromGray(img)
		Normalize(t)
		out = append(out, t)
	}
	return out, nil
}

// Package dataset assembles normalized tensors into an ordered training set.
package dataset

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"

	"github.com/bagtoad/imgset/internal/tensor"
)

// ErrInsufficientSamples is the kind of every InsufficientError.
var ErrInsufficientSamples = errors.New("insufficient samples")

// InsufficientError reports a truncation request larger than the dataset.
type InsufficientError struct {
	Requested int
	Available int
}

func (e *InsufficientError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: requested %d, only %d available", ErrInsufficientSamples, e.Requested, e.Available)
}

func (e *InsufficientError) Unwrap() error { return ErrInsufficientSamples }

// Sample is one training tensor and the file it came from.
type Sample struct {
	Source string
	Tensor *tensor.Tensor
}

// Dataset is an ordered sequence of uniformly shaped samples. Order is the
// order the producer emitted, which is directory enumeration order.
type Dataset struct {
	Samples []Sample
}

// Assemble pairs tensors with their sources, preserving order.
func Assemble(tensors []*tensor.Tensor, sources []string) (*Dataset, error) {
	if len(tensors) != len(sources) {
		return nil, fmt.Errorf("cannot assemble dataset: %d tensors but %d sources", len(tensors), len(sources))
	}

	ds := &Dataset{Samples: make([]Sample, len(tensors))}
	for i, t := range tensors {
		ds.Samples[i] = Sample{Source: sources[i], Tensor: t}
	}
	return ds, nil
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.Samples) }

// Shape returns the shape shared by every sample, or the zero shape for an
// empty dataset.
func (d *Dataset) Shape() [3]int {
	if len(d.Samples) == 0 {
		return [3]int{}
	}
	return d.Samples[0].Tensor.Shape()
}

// Bytes returns the memory held by all sample tensors.
func (d *Dataset) Bytes() int {
	total := 0
	for _, s := range d.Samples {
		total += s.Tensor.Bytes()
	}
	return total
}

// Truncate keeps the first n samples. n == 0 means no limit.
func (d *Dataset) Truncate(n int) error {
	switch {
	case n < 0:
		return fmt.Errorf("invalid sample limit %d", n)
	case n == 0:
		return nil
	case n > len(d.Samples):
		return &InsufficientError{Requested: n, Available: len(d.Samples)}
	}

	d.Samples = d.Samples[:n:n]
	return nil
}

// WriteFile gob-encodes the dataset to path. The file appears atomically.
func (d *Dataset) WriteFile(path string) error {
	if err := EncodeFile(path, d); err != nil {
		return fmt.Errorf("cannot write dataset: %w", err)
	}
	return nil
}

// EncodeFile gob-encodes v to a temporary file next to path and renames it
// into place, so readers never observe a partial file.
func EncodeFile(path string, v any) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // clean up if not renamed
	}()

	if err := gob.NewEncoder(f).Encode(v); err != nil {
		return fmt.Errorf("cannot encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("cannot finalize %s: %w", path, err)
	}
	return nil
}

// ReadFile decodes a dataset written by WriteFile.
func ReadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open dataset: %w", err)
	}
	defer f.Close()

	var d Dataset
	if err := gob.NewDecoder(f).Decode(&d); err != nil {
		return nil, fmt.Errorf("cannot decode dataset %s: %w", path, err)
	}
	return &d, nil
}

// Package pipeline runs the ingestion stages end to end:
// scan and decode, canonicalize, tensorize, assemble.
//
// Every stage materializes its whole output before the next one starts,
// and the first error of any stage aborts the run.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/bagtoad/imgset/internal/canonical"
	"github.com/bagtoad/imgset/internal/dataset"
	"github.com/bagtoad/imgset/internal/loader"
	"github.com/bagtoad/imgset/internal/scanner"
	"github.com/bagtoad/imgset/internal/tensor"
)

// ErrNoImages is returned when the category directory holds no matching file.
var ErrNoImages = errors.New("no image files found")

// Config selects the images to ingest and their canonical size.
type Config struct {
	BaseDir    string
	Category   string
	Width      int
	Height     int
	MaxSamples int // 0 keeps every sample
}

// Validate checks that the config describes a runnable pipeline.
func (c Config) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("dataset path is required")
	}
	if c.Category == "" {
		return fmt.Errorf("category is required")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", canonical.ErrInvalidSize, c.Width, c.Height)
	}
	if c.MaxSamples < 0 {
		return fmt.Errorf("max samples must not be negative, got %d", c.MaxSamples)
	}
	return nil
}

// Hooks receive progress notifications. Any of them may be nil.
type Hooks struct {
	OnScan   func(scan *scanner.Result)
	OnDecode func(current, total int)
}

// Result is the outcome of a successful run.
type Result struct {
	Scan        *scanner.Result
	Dataset     *dataset.Dataset
	Adjustments []canonical.Adjustment
}

// Run executes every stage for cfg.
func Run(cfg Config, hooks Hooks) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	scan, images, err := loader.LoadCategory(cfg.BaseDir, cfg.Category, hooks.OnScan, hooks.OnDecode)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImages, scan.Dir)
	}

	canon, adjustments, err := canonical.Canonicalize(images, cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}

	tensors, err := tensor.Tensorize(canon, cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("cannot tensorize images: %w", err)
	}

	sources := make([]string, len(images))
	for i, img := range images {
		sources[i] = img.Path
	}
	ds, err := dataset.Assemble(tensors, sources)
	if err != nil {
		return nil, err
	}
	if err := ds.Truncate(cfg.MaxSamples); err != nil {
		return nil, fmt.Errorf("cannot truncate dataset of %s: %w", scan.Dir, err)
	}

	return &Result{
		Scan:        scan,
		Dataset:     ds,
		Adjustments: adjustments,
	}, nil
}

package learner

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bagtoad/imgset/internal/dataset"
	"github.com/google/uuid"
)

// Bundle is everything an external trainer needs for one run.
type Bundle struct {
	RunID           string
	CreatedAt       time.Time
	Hyperparameters Hyperparameters
	Dataset         *dataset.Dataset
}

// Exporter is a Learner that does no training itself: Train packages the
// dataset and hyperparameters into a Bundle and Persist writes it to disk.
type Exporter struct {
	Hyperparameters Hyperparameters

	// Path is set by Persist to the file actually written.
	Path string
}

// NewExporter returns an Exporter for validated hyperparameters.
func NewExporter(hp Hyperparameters) (*Exporter, error) {
	if err := hp.Validate(); err != nil {
		return nil, err
	}
	return &Exporter{Hyperparameters: hp}, nil
}

// Train implements Learner. The bundle records epochs in its
// Hyperparameters, replacing the exporter's configured value.
func (e *Exporter) Train(ds *dataset.Dataset, epochs int) (*Bundle, error) {
	if epochs <= 0 {
		return nil, fmt.Errorf("epochs must be positive, got %d", epochs)
	}
	hp := e.Hyperparameters
	hp.Epochs = epochs
	return &Bundle{
		RunID:           uuid.NewString(),
		CreatedAt:       time.Now().UTC(),
		Hyperparameters: hp,
		Dataset:         ds,
	}, nil
}

// Persist implements Learner. An existing file at dest is never overwritten;
// a numeric suffix is appended instead.
func (e *Exporter) Persist(b *Bundle, dest string) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create output directory %q: %w", dir, err)
	}
	dest = resolveConflict(dest)

	if err := dataset.EncodeFile(dest, b); err != nil {
		return fmt.Errorf("cannot write bundle: %w", err)
	}
	e.Path = dest
	return nil
}

// ReadBundle decodes a bundle written by Exporter.Persist.
func ReadBundle(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open bundle: %w", err)
	}
	defer f.Close()

	var b Bundle
	if err := gob.NewDecoder(f).Decode(&b); err != nil {
		return nil, fmt.Errorf("cannot decode bundle %s: %w", path, err)
	}
	return &b, nil
}

// resolveConflict appends a numeric suffix if a file already exists at dest.
func resolveConflict(dest string) string {
	if _, err := os.Stat(dest); os.IsNotExist(err) {
		return dest
	}

	ext := filepath.Ext(dest)
	base := strings.TrimSuffix(dest, ext)

	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

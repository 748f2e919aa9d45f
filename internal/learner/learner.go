// Package learner defines the boundary to the learning component and ships
// an Exporter that packages a prepared dataset for an out-of-process trainer.
package learner

import (
	"fmt"

	"github.com/bagtoad/imgset/internal/dataset"
)

// Learner trains a model of type M from a dataset and persists it.
type Learner[M any] interface {
	Train(ds *dataset.Dataset, epochs int) (M, error)
	Persist(model M, dest string) error
}

// Handoff trains l on ds and persists the result to dest.
func Handoff[M any](l Learner[M], ds *dataset.Dataset, epochs int, dest string) error {
	if ds.Len() == 0 {
		return fmt.Errorf("cannot train on an empty dataset")
	}

	model, err := l.Train(ds, epochs)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	if err := l.Persist(model, dest); err != nil {
		return fmt.Errorf("cannot persist model to %s: %w", dest, err)
	}
	return nil
}

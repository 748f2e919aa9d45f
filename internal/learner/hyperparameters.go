package learner

import "fmt"

// VisibleUnit is the statistical family of the model's visible units.
type VisibleUnit string

const (
	VisibleBinary   VisibleUnit = "binary"
	VisibleGaussian VisibleUnit = "gaussian"
)

// Hyperparameters configure the learning component. They are carried to the
// learner untouched; this package only validates them.
type Hyperparameters struct {
	// Momentum ramps from InitialMomentum to FinalMomentum at MomentumEpoch.
	InitialMomentum float64
	FinalMomentum   float64
	MomentumEpoch   int

	LearningRate float64

	// Sparsity regularization: target activation, bias pull and its weight.
	SparsityTarget float64
	SparsityBias   float64
	SparsityLambda float64

	WeightDecay float64
	BatchSize   int
	Visible     VisibleUnit
	Epochs      int
}

// Defaults returns hyperparameters suited to normalized grayscale input,
// which calls for Gaussian visible units and a small learning rate.
func Defaults() Hyperparameters {
	return Hyperparameters{
		InitialMomentum: 0.5,
		FinalMomentum:   0.9,
		MomentumEpoch:   6,
		LearningRate:    1e-3,
		SparsityTarget:  0.01,
		SparsityBias:    0.002,
		SparsityLambda:  5,
		WeightDecay:     2e-4,
		BatchSize:       25,
		Visible:         VisibleGaussian,
		Epochs:          50,
	}
}

// Validate rejects values no learner could use.
func (h Hyperparameters) Validate() error {
	if h.InitialMomentum < 0 || h.InitialMomentum >= 1 {
		return fmt.Errorf("initial momentum must be in [0,1), got %g", h.InitialMomentum)
	}
	if h.FinalMomentum < 0 || h.FinalMomentum >= 1 {
		return fmt.Errorf("final momentum must be in [0,1), got %g", h.FinalMomentum)
	}
	if h.MomentumEpoch < 0 {
		return fmt.Errorf("momentum epoch must not be negative, got %d", h.MomentumEpoch)
	}
	if h.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive, got %g", h.LearningRate)
	}
	if h.SparsityTarget < 0 || h.SparsityTarget > 1 {
		return fmt.Errorf("sparsity target must be in [0,1], got %g", h.SparsityTarget)
	}
	if h.SparsityBias < 0 || h.SparsityLambda < 0 {
		return fmt.Errorf("sparsity terms must not be negative")
	}
	if h.WeightDecay < 0 {
		return fmt.Errorf("weight decay must not be negative, got %g", h.WeightDecay)
	}
	if h.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", h.BatchSize)
	}
	switch h.Visible {
	case VisibleBinary, VisibleGaussian:
	default:
		return fmt.Errorf("unknown visible unit type %q", h.Visible)
	}
	if h.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive, got %d", h.Epochs)
	}
	return nil
}

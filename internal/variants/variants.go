// Package variants provides the built-in run variants and resolves the
// effective run configuration from flags, the config file, and defaults.
package variants

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bagtoad/imgset/internal/learner"
	"github.com/spf13/viper"
)

// Variant fixes the category and canonical size of a run.
type Variant struct {
	Name       string
	Category   string
	Width      int
	Height     int
	MaxSamples int
}

// DefaultVariant is used when nothing else selects one.
const DefaultVariant = "cars"

// Builtin lists the compiled-in variants.
var Builtin = map[string]Variant{
	"cars":       {Name: "cars", Category: "cars", Width: 298, Height: 199},
	"cars-small": {Name: "cars-small", Category: "cars", Width: 294, Height: 198},
}

// Names returns the built-in variant names, sorted.
func Names() []string {
	names := make([]string, 0, len(Builtin))
	for k := range Builtin {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Overrides carries values set explicitly on the command line. Zero values
// mean "not set", except MaxSamples where zero is a real value (no limit)
// and nil means "not set".
type Overrides struct {
	Variant    string
	Category   string
	Width      int
	Height     int
	MaxSamples *int
	Epochs     int
}

// Settings is the fully resolved configuration of a run.
type Settings struct {
	Variant         Variant
	Hyperparameters learner.Hyperparameters
}

// ConfigPath returns the default config file path (~/.imgset/config.yaml).
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".imgset", "config.yaml"), nil
}

// Load reads the config file at path into a viper instance seeded with
// learner.Defaults. IMGSET_* environment variables override file values.
// If path is empty the default location is tried; a missing default file
// is not an error, but an explicitly named one is.
func Load(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("IMGSET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return v, nil
		}
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			return v, nil
		}
		path = p
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("variant", DefaultVariant)

	hp := learner.Defaults()
	v.SetDefault("hyperparameters.initial_momentum", hp.InitialMomentum)
	v.SetDefault("hyperparameters.final_momentum", hp.FinalMomentum)
	v.SetDefault("hyperparameters.momentum_epoch", hp.MomentumEpoch)
	v.SetDefault("hyperparameters.learning_rate", hp.LearningRate)
	v.SetDefault("hyperparameters.sparsity_target", hp.SparsityTarget)
	v.SetDefault("hyperparameters.sparsity_bias", hp.SparsityBias)
	v.SetDefault("hyperparameters.sparsity_lambda", hp.SparsityLambda)
	v.SetDefault("hyperparameters.weight_decay", hp.WeightDecay)
	v.SetDefault("hyperparameters.batch_size", hp.BatchSize)
	v.SetDefault("hyperparameters.visible", string(hp.Visible))
	v.SetDefault("hyperparameters.epochs", hp.Epochs)
}

// Resolve returns the effective settings.
// Priority: CLI overrides > config file > built-in variant.
func Resolve(v *viper.Viper, o Overrides) (*Settings, error) {
	name := v.GetString("variant")
	if o.Variant != "" {
		name = o.Variant
	}
	variant, ok := Builtin[name]
	if !ok {
		return nil, fmt.Errorf("unknown variant %q (available: %s)", name, strings.Join(Names(), ", "))
	}

	if v.IsSet("category") {
		variant.Category = v.GetString("category")
	}
	if v.IsSet("width") {
		variant.Width = v.GetInt("width")
	}
	if v.IsSet("height") {
		variant.Height = v.GetInt("height")
	}
	if v.IsSet("max_samples") {
		variant.MaxSamples = v.GetInt("max_samples")
	}

	if o.Category != "" {
		variant.Category = o.Category
	}
	if o.Width != 0 {
		variant.Width = o.Width
	}
	if o.Height != 0 {
		variant.Height = o.Height
	}
	if o.MaxSamples != nil {
		variant.MaxSamples = *o.MaxSamples
	}

	hp := learner.Hyperparameters{
		InitialMomentum: v.GetFloat64("hyperparameters.initial_momentum"),
		FinalMomentum:   v.GetFloat64("hyperparameters.final_momentum"),
		MomentumEpoch:   v.GetInt("hyperparameters.momentum_epoch"),
		LearningRate:    v.GetFloat64("hyperparameters.learning_rate"),
		SparsityTarget:  v.GetFloat64("hyperparameters.sparsity_target"),
		SparsityBias:    v.GetFloat64("hyperparameters.sparsity_bias"),
		SparsityLambda:  v.GetFloat64("hyperparameters.sparsity_lambda"),
		WeightDecay:     v.GetFloat64("hyperparameters.weight_decay"),
		BatchSize:       v.GetInt("hyperparameters.batch_size"),
		Visible:         learner.VisibleUnit(v.GetString("hyperparameters.visible")),
		Epochs:          v.GetInt("hyperparameters.epochs"),
	}
	if o.Epochs != 0 {
		hp.Epochs = o.Epochs
	}
	if err := hp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid hyperparameters: %w", err)
	}

	return &Settings{Variant: variant, Hyperparameters: hp}, nil
}

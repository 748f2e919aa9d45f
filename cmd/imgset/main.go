package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/bagtoad/imgset/internal/learner"
	"github.com/bagtoad/imgset/internal/pipeline"
	"github.com/bagtoad/imgset/internal/report"
	"github.com/bagtoad/imgset/internal/scanner"
	"github.com/bagtoad/imgset/internal/variants"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const (
	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 2
)

const usageLine = "Usage: imgset <dataset_path> [flags]"

// usageError is returned when required arguments are missing.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

type options struct {
	overrides  variants.Overrides
	maxSamples int
	configPath string
	out        string
	datasetOut string
	dryRun     bool
	quiet      bool
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return exitSuccess
	}

	var uerr *usageError
	if errors.As(err, &uerr) {
		fmt.Fprintln(stdout, usageLine)
		return exitUsage
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitFailure
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "imgset <dataset_path>",
		Short: "Prepare a grayscale image category as a normalized training set",
		Long: `imgset reads every .jpg file in <dataset_path>/<category>, reconciles
each image to one canonical size by top-left cropping or padding with
white, converts it to a normalized (1, height, width) tensor, and writes
the resulting training set together with the learner hyperparameters to a
bundle file for the training component.

The category and canonical size come from a built-in variant (--variant),
optionally overridden by ~/.imgset/config.yaml (or --config) and flags.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return &usageError{msg: "missing dataset path"}
			}
			return cobra.MaximumNArgs(1)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("max-samples") {
				opts.overrides.MaxSamples = &opts.maxSamples
			}
			return run(stdout, args[0], opts)
		},
	}

	f := rootCmd.Flags()
	f.StringVar(&opts.overrides.Variant, "variant", "", fmt.Sprintf("Built-in run variant (default %q)", variants.DefaultVariant))
	f.StringVar(&opts.overrides.Category, "category", "", "Category subdirectory to read images from")
	f.IntVar(&opts.overrides.Width, "width", 0, "Canonical image width in pixels")
	f.IntVar(&opts.overrides.Height, "height", 0, "Canonical image height in pixels")
	f.IntVar(&opts.maxSamples, "max-samples", 0, "Keep only the first N samples (0 keeps all)")
	f.IntVar(&opts.overrides.Epochs, "epochs", 0, "Number of training epochs handed to the learner")
	f.StringVar(&opts.configPath, "config", "", "Config file (default ~/.imgset/config.yaml)")
	f.StringVar(&opts.out, "out", "", "Bundle destination (default <category>.bundle.gob)")
	f.StringVar(&opts.datasetOut, "dataset-out", "", "Also write the prepared dataset to this file")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Prepare and report without writing the bundle")
	f.BoolVar(&opts.quiet, "quiet", false, "Disable progress output")

	return rootCmd
}

func run(stdout io.Writer, datasetPath string, opts options) error {
	v, err := variants.Load(opts.configPath)
	if err != nil {
		return err
	}
	settings, err := variants.Resolve(v, opts.overrides)
	if err != nil {
		return fmt.Errorf("cannot resolve configuration: %w", err)
	}

	cfg := pipeline.Config{
		BaseDir:    datasetPath,
		Category:   settings.Variant.Category,
		Width:      settings.Variant.Width,
		Height:     settings.Variant.Height,
		MaxSamples: settings.Variant.MaxSamples,
	}
	fmt.Fprintf(stdout, "Preparing %q at %dx%d (variant %s)\n", cfg.Category, cfg.Width, cfg.Height, settings.Variant.Name)

	var bar *progressbar.ProgressBar
	hooks := pipeline.Hooks{
		OnScan: func(scan *scanner.Result) {
			fmt.Fprintf(stdout, "Found %d images in %s (%d other files skipped)\n", len(scan.ImagePaths), scan.Dir, scan.SkippedCount)
			if !opts.quiet && len(scan.ImagePaths) > 0 {
				bar = progressbar.NewOptions(len(scan.ImagePaths),
					progressbar.OptionSetWriter(stdout),
					progressbar.OptionSetDescription("Decoding"),
					progressbar.OptionShowCount(),
					progressbar.OptionSetItsString("images"),
					progressbar.OptionClearOnFinish(),
				)
			}
		},
		OnDecode: func(current, total int) {
			if bar != nil {
				bar.Set(current)
			}
		},
	}

	result, err := pipeline.Run(cfg, hooks)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}
	if opts.datasetOut != "" {
		if err := result.Dataset.WriteFile(opts.datasetOut); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Dataset written to %s\n", opts.datasetOut)
	}

	summary := report.Summary{Result: result, Config: cfg, DryRun: opts.dryRun}
	if opts.dryRun {
		fmt.Fprintln(stdout, "Dry run mode: no bundle will be written")
		report.Print(stdout, summary)
		return nil
	}

	exporter, err := learner.NewExporter(settings.Hyperparameters)
	if err != nil {
		return err
	}
	dest := opts.out
	if dest == "" {
		dest = cfg.Category + ".bundle.gob"
	}
	if err := learner.Handoff[*learner.Bundle](exporter, result.Dataset, settings.Hyperparameters.Epochs, dest); err != nil {
		return err
	}

	if exporter.Path != dest {
		log.Printf("Warning: %s already exists, bundle written to %s instead", dest, exporter.Path)
	}
	summary.Destination = exporter.Path
	report.Print(stdout, summary)
	return nil
}

//go:build integration

package integration_test

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/bagtoad/imgset/internal/canonical"
	"github.com/bagtoad/imgset/internal/dataset"
	"github.com/bagtoad/imgset/internal/learner"
	"github.com/bagtoad/imgset/internal/loader"
	"github.com/bagtoad/imgset/internal/pipeline"
	"github.com/bagtoad/imgset/internal/report"
	"github.com/bagtoad/imgset/internal/scanner"
	"github.com/bagtoad/imgset/internal/tensor"
	"github.com/bagtoad/imgset/internal/variants"
	"gonum.org/v1/gonum/stat"
)

var fixtureSizes = map[string][2]int{
	"image_0001.jpg": {294, 198},
	"image_0002.jpg": {300, 200},
	"image_0003.jpg": {250, 150},
}

// makeCategory writes the three fixture images plus files the scanner must
// skip into base/cars and returns base.
func makeCategory(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	dir := filepath.Join(base, "cars")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}

	for name, size := range fixtureSizes {
		img := image.NewGray(image.Rect(0, 0, size[0], size[1]))
		for y := 0; y < size[1]; y++ {
			for x := 0; x < size[0]; x++ {
				v := 127 + 120*math.Sin(float64(x)/9)*math.Cos(float64(y)/13)
				img.SetGray(x, y, color.Gray{Y: uint8(v)})
			}
		}
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 95}); err != nil {
			t.Fatal(err)
		}
		f.Close()
	}

	for _, name := range []string{"readme.txt", "extra.jpeg", "upper.JPG"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("skip"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return base
}

func TestStagesByHand(t *testing.T) {
	base := makeCategory(t)

	scan, images, err := loader.LoadCategory(base, "cars", nil, nil)
	if err != nil {
		t.Fatalf("LoadCategory failed: %v", err)
	}
	if len(images) != 3 || scan.SkippedCount != 3 {
		t.Fatalf("expected 3 images and 3 skipped, got %d and %d", len(images), scan.SkippedCount)
	}

	for _, img := range images {
		want := fixtureSizes[filepath.Base(img.Path)]
		if img.Width() != want[0] || img.Height() != want[1] {
			t.Errorf("%s: expected %dx%d, got %dx%d", img.Path, want[0], want[1], img.Width(), img.Height())
		}
	}

	canon, _, err := canonical.Canonicalize(images, 294, 198)
	if err != nil {
		t.Fatal(err)
	}
	for i, img := range canon {
		src := images[i].Gray
		if src.Rect.Dx() < 294 && img.GrayAt(293, 197).Y != canonical.Background {
			t.Errorf("%s: expected padded corner", images[i].Path)
		}
		if img.GrayAt(3, 4) != src.GrayAt(3, 4) {
			t.Errorf("%s: top-left region not preserved", images[i].Path)
		}
	}

	tensors, err := tensor.Tensorize(canon, 294, 198)
	if err != nil {
		t.Fatal(err)
	}
	for i, tt := range tensors {
		mean, std := stat.PopMeanStdDev(tt.Data, nil)
		if math.Abs(mean) > 1e-6 || math.Abs(std-1) > 1e-6 {
			t.Errorf("tensor %d: mean %g std %g", i, mean, std)
		}
	}
}

func TestFullPipelineWithExport(t *testing.T) {
	base := makeCategory(t)
	t.Setenv("HOME", t.TempDir())

	maxSamples := 3
	v, err := variants.Load("")
	if err != nil {
		t.Fatal(err)
	}
	settings, err := variants.Resolve(v, variants.Overrides{Variant: "cars-small", MaxSamples: &maxSamples})
	if err != nil {
		t.Fatal(err)
	}

	cfg := pipeline.Config{
		BaseDir:    base,
		Category:   settings.Variant.Category,
		Width:      settings.Variant.Width,
		Height:     settings.Variant.Height,
		MaxSamples: settings.Variant.MaxSamples,
	}
	res, err := pipeline.Run(cfg, pipeline.Hooks{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Dataset.Len() != 3 || res.Dataset.Shape() != [3]int{1, 198, 294} {
		t.Fatalf("unexpected dataset: %d samples of %v", res.Dataset.Len(), res.Dataset.Shape())
	}

	exp, err := learner.NewExporter(settings.Hyperparameters)
	if err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(t.TempDir(), "cars.bundle.gob")
	if err := learner.Handoff[*learner.Bundle](exp, res.Dataset, settings.Hyperparameters.Epochs, dest); err != nil {
		t.Fatalf("Handoff failed: %v", err)
	}

	b, err := learner.ReadBundle(exp.Path)
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range b.Dataset.Samples {
		if s.Source != res.Dataset.Samples[i].Source {
			t.Errorf("sample %d reordered in bundle", i)
		}
	}

	report.Print(os.Stdout, report.Summary{Result: res, Config: cfg, Destination: exp.Path})
}

func TestFullPipelineFailures(t *testing.T) {
	base := makeCategory(t)

	_, err := pipeline.Run(pipeline.Config{BaseDir: base, Category: "cars", Width: 294, Height: 198, MaxSamples: 4}, pipeline.Hooks{})
	if !errors.Is(err, dataset.ErrInsufficientSamples) {
		t.Errorf("expected ErrInsufficientSamples, got %v", err)
	}

	_, err = pipeline.Run(pipeline.Config{BaseDir: base, Category: "boats", Width: 294, Height: 198}, pipeline.Hooks{})
	if !errors.Is(err, scanner.ErrDirectoryNotFound) {
		t.Errorf("expected ErrDirectoryNotFound, got %v", err)
	}

	if err := os.WriteFile(filepath.Join(base, "cars", "zz_truncated.jpg"), []byte{0xff, 0xd8, 0xff}, 0644); err != nil {
		t.Fatal(err)
	}
	_, err = pipeline.Run(pipeline.Config{BaseDir: base, Category: "cars", Width: 294, Height: 198}, pipeline.Hooks{})
	if !errors.Is(err, loader.ErrImageDecode) {
		t.Errorf("expected ErrImageDecode, got %v", err)
	}
}

// Package report generates summary reports of a dataset preparation run.
package report

import (
	"fmt"
	"io"

	"github.com/bagtoad/imgset/internal/canonical"
	"github.com/bagtoad/imgset/internal/pipeline"
	"github.com/dustin/go-humanize"
)

// Summary is what Print needs to describe a run.
type Summary struct {
	Result      *pipeline.Result
	Config      pipeline.Config
	Destination string // empty when nothing was written
	DryRun      bool
}

// Print writes a summary report to the given writer.
func Print(w io.Writer, s Summary) {
	res := s.Result
	found := len(res.Scan.ImagePaths)

	var unchanged, cropped, padded int
	for _, a := range res.Adjustments {
		if a == (canonical.Adjustment{}) {
			unchanged++
		}
		if a.Cropped() {
			cropped++
		}
		if a.Padded() {
			padded++
		}
	}

	fmt.Fprintln(w)
	if s.DryRun {
		fmt.Fprintln(w, "=== Dry Run Summary ===")
	} else {
		fmt.Fprintln(w, "=== Summary ===")
	}
	fmt.Fprintf(w, "Directory:           %s\n", res.Scan.Dir)
	fmt.Fprintf(w, "Images found:        %d\n", found)
	if res.Scan.SkippedCount > 0 {
		fmt.Fprintf(w, "Non-image files:     %d\n", res.Scan.SkippedCount)
	}
	fmt.Fprintf(w, "Canonical size:      %dx%d\n", s.Config.Width, s.Config.Height)
	fmt.Fprintf(w, "  unchanged:         %d\n", unchanged)
	fmt.Fprintf(w, "  cropped:           %d\n", cropped)
	fmt.Fprintf(w, "  padded:            %d\n", padded)

	ds := res.Dataset
	shape := ds.Shape()
	fmt.Fprintf(w, "Samples:             %d", ds.Len())
	if ds.Len() < found {
		fmt.Fprintf(w, " (truncated from %d)", found)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Tensor shape:        (%d,%d,%d)\n", shape[0], shape[1], shape[2])
	fmt.Fprintf(w, "Tensor memory:       %s\n", humanize.Bytes(uint64(ds.Bytes())))

	switch {
	case s.DryRun:
		fmt.Fprintln(w, "\nNo bundle written.")
	case s.Destination != "":
		fmt.Fprintf(w, "\nBundle written to %s\n", s.Destination)
	}
	fmt.Fprintln(w)
}

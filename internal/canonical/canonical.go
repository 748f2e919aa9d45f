// Package canonical reconciles decoded images to one fixed size by
// top-left anchored cropping and padding. No scaling is performed.
package canonical

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/bagtoad/imgset/internal/loader"
	"golang.org/x/image/draw"
)

// Background is the sample written wherever the source does not reach.
const Background uint8 = 255

// ErrInvalidSize is returned for a non-positive target size.
var ErrInvalidSize = errors.New("invalid canonical size")

// Adjustment records how many pixels were cropped or padded on each axis.
type Adjustment struct {
	CropX, CropY int
	PadX, PadY   int
}

// Cropped reports whether any source pixels were discarded.
func (a Adjustment) Cropped() bool { return a.CropX > 0 || a.CropY > 0 }

// Padded reports whether any background pixels were added.
func (a Adjustment) Padded() bool { return a.PadX > 0 || a.PadY > 0 }

// Reconcile returns img at exactly width x height. An image already at the
// target size is returned unchanged. Otherwise the region
// [0,min(w,width)) x [0,min(h,height)) is copied into a new background-filled
// image; each axis crops or pads independently.
func Reconcile(img *image.Gray, width, height int) (*image.Gray, Adjustment) {
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == width && srcH == height {
		return img, Adjustment{}
	}

	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Rect, image.NewUniform(color.Gray{Y: Background}), image.Point{}, draw.Src)

	copyRect := image.Rect(0, 0, min(srcW, width), min(srcH, height))
	draw.Draw(dst, copyRect, img, b.Min, draw.Src)

	return dst, Adjustment{
		CropX: max(srcW-width, 0),
		CropY: max(srcH-height, 0),
		PadX:  max(width-srcW, 0),
		PadY:  max(height-srcH, 0),
	}
}

// Canonicalize reconciles every image to width x height, preserving order.
func Canonicalize(images []loader.Image, width, height int) ([]*image.Gray, []Adjustment, error) {
	if width <= 0 || height <= 0 {
		return nil, nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	out := make([]*image.Gray, len(images))
	adjustments := make([]Adjustment, len(images))
	for i, img := range images {
		out[i], adjustments[i] = Reconcile(img.Gray, width, height)
	}
	return out, adjustments, nil
}

// Package loader decodes scanned image files into 8-bit grayscale grids.
//
// Loading is batch-atomic: the first file that cannot be decoded fails the
// whole call and no partial result is returned.
package loader

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/bagtoad/imgset/internal/scanner"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrImageDecode is the kind of every DecodeError.
var ErrImageDecode = errors.New("image decode failed")

// DecodeError reports the file that could not be turned into pixel data.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s: %v", ErrImageDecode, e.Path, e.Err)
}

// Unwrap exposes both the sentinel kind and the underlying cause.
func (e *DecodeError) Unwrap() []error { return []error{ErrImageDecode, e.Err} }

// Image is a decoded single-channel image. Gray always has its origin at
// (0,0) and must not be mutated once returned.
type Image struct {
	Path string
	Gray *image.Gray
}

// Width returns the decoded width in pixels.
func (i Image) Width() int { return i.Gray.Rect.Dx() }

// Height returns the decoded height in pixels.
func (i Image) Height() int { return i.Gray.Rect.Dy() }

// Load decodes every path in order. progressFn, if non-nil, is called after
// each successfully decoded file.
func Load(paths []string, progressFn func(current, total int)) ([]Image, error) {
	images := make([]Image, 0, len(paths))

	for i, path := range paths {
		gray, err := DecodeFile(path)
		if err != nil {
			return nil, err
		}
		images = append(images, Image{Path: path, Gray: gray})

		if progressFn != nil {
			progressFn(i+1, len(paths))
		}
	}

	return images, nil
}

// LoadCategory scans base/category and decodes every matching file. onScan,
// if non-nil, sees the scan result before any file is decoded.
func LoadCategory(base, category string, onScan func(*scanner.Result), progressFn func(current, total int)) (*scanner.Result, []Image, error) {
	scan, err := scanner.Scan(base, category)
	if err != nil {
		return nil, nil, err
	}
	if onScan != nil {
		onScan(scan)
	}
	images, err := Load(scan.ImagePaths, progressFn)
	if err != nil {
		return scan, nil, err
	}
	return scan, images, nil
}

// DecodeFile opens and decodes a single image file as 8-bit grayscale.
func DecodeFile(path string) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if img.Bounds().Empty() {
		return nil, &DecodeError{Path: path, Err: errors.New("no pixel data")}
	}

	return toGray(img), nil
}

// toGray converts img to an *image.Gray anchored at (0,0). Grayscale
// images already at the origin are returned as is.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}

	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Rect, img, bounds.Min, draw.Src)
	return gray
}

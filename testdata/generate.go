// This program generates a small grayscale category for trying imgset by hand:
//
//	go run testdata/generate.go && go run ./cmd/imgset testdata --variant cars-small
//
//go:build ignore

package main

import (
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
)

func main() {
	dir := filepath.Join("testdata", "cars")
	os.MkdirAll(dir, 0755)

	// Exactly the cars-small canonical size
	generateWaves(filepath.Join(dir, "image_0001.jpg"), 294, 198)

	// Larger on both axes: cropped
	generateStripes(filepath.Join(dir, "image_0002.jpg"), 300, 200)

	// Smaller on both axes: padded with white
	generateRadial(filepath.Join(dir, "image_0003.jpg"), 250, 150)

	// Files the scanner must skip
	generateWaves(filepath.Join(dir, "extra.jpeg"), 64, 64)
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("not an image"), 0644)
}

func generateWaves(path string, w, h int) {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := 127 + 120*math.Sin(float64(x)/9)*math.Cos(float64(y)/13)
			img.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}
	saveJPEG(path, img)
}

func generateStripes(path string, w, h int) {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/10)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 40})
			} else {
				img.SetGray(x, y, color.Gray{Y: 210})
			}
		}
	}
	saveJPEG(path, img)
}

func generateRadial(path string, w, h int) {
	img := image.NewGray(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	maxDist := math.Hypot(cx, cy)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy) / maxDist
			img.SetGray(x, y, color.Gray{Y: uint8(255 * (1 - d))})
		}
	}
	saveJPEG(path, img)
}

func saveJPEG(path string, img image.Image) {
	f, _ := os.Create(path)
	defer f.Close()
	jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
}

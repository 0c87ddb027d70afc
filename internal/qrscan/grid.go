// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package qrscan

import (
	"image"
	"image/color"
	"math"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode/decoder"
)

const (
	minDimension = 21
	maxDimension = 177
	darkLevel    = 128
)

// decodeGrid reads an upright, unrotated symbol on a light background by
// sampling the centre of every module. Encoders that map pixels to the
// nearest module draw modules of uneven width, so the pitch is taken from
// the symbol's full extent rather than from a single finder pattern.
func decodeGrid(img image.Image) (string, error) {
	left, top, right, bottom, ok := darkBounds(img)
	if !ok {
		return "", gozxing.NewNotFoundException("no dark pixels")
	}
	width, height := right-left+1, bottom-top+1
	if abs(width-height) > 1 {
		return "", gozxing.NewNotFoundException("symbol is not square: %dx%d", width, height)
	}

	finder := 0
	for x := left; x <= right && isDark(img, x, top); x++ {
		finder++
	}
	if finder < 7 {
		return "", gozxing.NewNotFoundException("finder pattern too small")
	}

	estimate := float64(width) / (float64(finder) / 7)
	nearest := minDimension + 4*int(math.Round((estimate-minDimension)/4))

	dec := decoder.NewDecoder()
	var lastErr error = gozxing.NewNotFoundException("no candidate dimension")
	for _, step := range []int{0, -4, 4, -8, 8} {
		dim := nearest + step
		if dim < minDimension || dim > maxDimension {
			continue
		}
		res, err := dec.DecodeBoolMap(sampleGrid(img, left, top, width, height, dim), nil)
		if err == nil {
			return res.GetText(), nil
		}
		lastErr = err
	}
	return "", lastErr
}

func sampleGrid(img image.Image, left, top, width, height, dim int) [][]bool {
	pitchX := float64(width) / float64(dim)
	pitchY := float64(height) / float64(dim)

	grid := make([][]bool, dim)
	for y := range grid {
		grid[y] = make([]bool, dim)
		py := top + int((float64(y)+0.5)*pitchY)
		for x := range grid[y] {
			grid[y][x] = isDark(img, left+int((float64(x)+0.5)*pitchX), py)
		}
	}
	return grid
}

// darkBounds returns the inclusive bounding box of all dark pixels.
func darkBounds(img image.Image) (left, top, right, bottom int, ok bool) {
	b := img.Bounds()
	left, top = b.Max.X, b.Max.Y
	right, bottom = b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !isDark(img, x, y) {
				continue
			}
			left, right = min(left, x), max(right, x)
			top, bottom = min(top, y), max(bottom, y)
		}
	}
	return left, top, right, bottom, right >= left
}

func isDark(img image.Image, x, y int) bool {
	return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y < darkLevel
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

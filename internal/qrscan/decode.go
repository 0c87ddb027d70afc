// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package qrscan

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"os"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/nfnt/resize"
)

// maxFallbackSide bounds the longest side of the downscaled copy tried when
// full-resolution decoding fails. Rasterized pages are often far larger
// than the symbol needs.
const maxFallbackSide = 1024

// Decoder locates and decodes a QR code in an image. Implementations return
// an error wrapping ErrQRNotFound when no code can be read.
type Decoder interface {
	Decode(img image.Image) (string, error)
}

// ZXingDecoder decodes QR codes with gozxing. When the detector cannot read
// an image as given it retries with harder hints, on a module grid sampled
// directly from a pure symbol, and on rescaled, padded and downscaled copies.
type ZXingDecoder struct {
	reader gozxing.Reader
}

// NewZXingDecoder returns a decoder backed by the gozxing QR reader.
func NewZXingDecoder() *ZXingDecoder {
	return &ZXingDecoder{reader: qrcode.NewQRCodeReader()}
}

var (
	tryHarder = map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	pureBarcode = map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_PURE_BARCODE: true,
	}
	rescaleFactors = []float64{0.8, 1.3}
)

// Decode returns the text of the first QR code found in img.
func (z *ZXingDecoder) Decode(img image.Image) (string, error) {
	text, err := z.decode(img, nil)
	if err == nil {
		return text, nil
	}
	firstErr := err

	attempts := []func() (string, error){
		func() (string, error) { return z.decode(img, tryHarder) },
		func() (string, error) { return z.decode(img, pureBarcode) },
		func() (string, error) { return decodeGrid(img) },
	}
	b := img.Bounds()
	for _, f := range rescaleFactors {
		w := uint(float64(b.Dx()) * f)
		if w == 0 {
			continue
		}
		attempts = append(attempts, func() (string, error) {
			return z.decode(resize.Resize(w, 0, img, resize.Bilinear), tryHarder)
		})
	}
	attempts = append(attempts, func() (string, error) {
		return z.decode(padWhite(img, max(b.Dx(), b.Dy())/8), tryHarder)
	})
	if b.Dx() > maxFallbackSide || b.Dy() > maxFallbackSide {
		attempts = append(attempts, func() (string, error) {
			small := resize.Thumbnail(maxFallbackSide, maxFallbackSide, img, resize.Bilinear)
			return z.decode(small, tryHarder)
		})
	}

	for _, attempt := range attempts {
		if text, err = attempt(); err == nil {
			return text, nil
		}
	}
	return "", fmt.Errorf("%w: %w", ErrQRNotFound, firstErr)
}

// padWhite returns a copy of img surrounded by a white border of margin
// pixels.
func padWhite(img image.Image, margin int) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()+2*margin, b.Dy()+2*margin))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(margin, margin, margin+b.Dx(), margin+b.Dy()), img, b.Min, draw.Src)
	return out
}

func (z *ZXingDecoder) decode(img image.Image, hints map[gozxing.DecodeHintType]interface{}) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("creating bitmap: %w", err)
	}
	defer z.reader.Reset()

	result, err := z.reader.Decode(bmp, hints)
	if err != nil {
		return "", err
	}
	return result.GetText(), nil
}

// ReadImage decodes the image file at path.
func ReadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageDecode, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageDecode, err)
	}
	return img, nil
}

// DecodeFile reads the image at path and decodes its QR code with d.
func DecodeFile(d Decoder, path string) (string, error) {
	img, err := ReadImage(path)
	if err != nil {
		return "", err
	}
	text, err := d.Decode(img)
	if err != nil {
		if !errors.Is(err, ErrQRNotFound) {
			err = fmt.Errorf("%w: %w", ErrQRNotFound, err)
		}
		return "", err
	}
	return text, nil
}

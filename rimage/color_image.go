package rimage

import (
	"image"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
	"gorgonia.org/tensor"
)

// ReadColorImage loads a color frame either from a numpy array of shape (H, W, C) or (H, W), or
// from any image file format that imaging can decode. The result is always fully opaque.
func ReadColorImage(path string) (*image.NRGBA, error) {
	if strings.EqualFold(filepath.Ext(path), NpyExt) {
		t, err := ReadNpyFile(path)
		if err != nil {
			return nil, err
		}
		return ColorImageFromTensor(t)
	}
	img, err := ReadImageFromFile(path)
	if err != nil {
		return nil, err
	}
	return toOpaqueNRGBA(img), nil
}

// ColorImageFromTensor converts an array of color samples into an image. Floating point arrays
// whose maximum is at most 1 are treated as normalized and scaled to [0, 255]; everything else is
// treated as 8-bit samples already.
func ColorImageFromTensor(t *tensor.Dense) (*image.NRGBA, error) {
	shape := t.Shape()
	channels := 1
	switch {
	case len(shape) == 2:
	case len(shape) == 3 && (shape[2] == 1 || shape[2] == 3 || shape[2] == 4):
		channels = shape[2]
	default:
		return nil, errors.Errorf("color array must have shape (H, W) or (H, W, C) with C in {1, 3, 4}, got %v", shape)
	}
	height, width := shape[0], shape[1]

	values, err := Float64s(t)
	if err != nil {
		return nil, err
	}
	scale := 1.0
	if IsFloating(t) && maxOf(values) <= 1.0 {
		scale = 255
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			base := (y*width + x) * channels
			r := toUint8(values[base] * scale)
			g, b := r, r
			if channels >= 3 {
				g = toUint8(values[base+1] * scale)
				b = toUint8(values[base+2] * scale)
			}
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: math.MaxUint8})
		}
	}
	return img, nil
}

// ResizeColor scales img to width x height with bilinear interpolation.
func ResizeColor(img image.Image, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// toOpaqueNRGBA drops any alpha channel, matching how color frames are stored.
func toOpaqueNRGBA(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = math.MaxUint8
	}
	return out
}

func maxOf(values []float64) float64 {
	m := math.Inf(-1)
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

func toUint8(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= math.MaxUint8:
		return math.MaxUint8
	default:
		return uint8(v)
	}
}

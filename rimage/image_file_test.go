package rimage

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"

	"github.com/lmittmann/ppm"
	"github.com/xfmoulet/qoi"
	"go.viam.com/test"
)

func TestReadImageFromFileFormats(t *testing.T) {
	dir := t.TempDir()
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(40 * x), G: uint8(90 * y), B: 7, A: 255})
		}
	}

	rgba := image.NewRGBA(src.Bounds())
	draw.Draw(rgba, rgba.Bounds(), src, image.Point{}, draw.Src)

	for _, tc := range []struct {
		name   string
		encode func(f *os.File) error
	}{
		{"frame.ppm", func(f *os.File) error { return ppm.Encode(f, rgba) }},
		{"frame.qoi", func(f *os.File) error { return qoi.Encode(f, src) }},
		{"frame.png", func(f *os.File) error { return WriteImageToFile(f.Name(), src) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			f, err := os.Create(path)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, tc.encode(f), test.ShouldBeNil)
			test.That(t, f.Close(), test.ShouldBeNil)

			img, err := ReadColorImage(path)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, img.Bounds(), test.ShouldResemble, src.Bounds())
			test.That(t, img.NRGBAAt(2, 1), test.ShouldResemble, color.NRGBA{R: 80, G: 90, B: 7, A: 255})
		})
	}

	garbage := filepath.Join(dir, "frame.bin")
	test.That(t, os.WriteFile(garbage, []byte("not an image"), 0o600), test.ShouldBeNil)
	_, err := ReadImageFromFile(garbage)
	test.That(t, err, test.ShouldNotBeNil)
}

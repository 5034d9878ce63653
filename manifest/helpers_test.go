package manifest

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
	"gorgonia.org/tensor"

	"go.viam.com/rgbdcapture/rimage"
)

func writeColorSource(t *testing.T, path string, width, height int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	test.That(t, rimage.WriteImageToFile(path, img), test.ShouldBeNil)
}

func writeDepthSource(t *testing.T, path string, width, height int, meters float64) {
	t.Helper()
	values := make([]float64, width*height)
	for i := range values {
		values[i] = meters
	}
	writeNpy(t, path, []int{height, width}, values)
}

func writeNpy(t *testing.T, path string, shape []int, backing interface{}) {
	t.Helper()
	test.That(t, os.MkdirAll(filepath.Dir(path), 0o755), test.ShouldBeNil)
	f, err := os.Create(path)
	test.That(t, err, test.ShouldBeNil)
	defer f.Close()
	arr := tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing))
	test.That(t, arr.WriteNpy(f), test.ShouldBeNil)
}

func writeText(t *testing.T, path, content string) {
	t.Helper()
	test.That(t, os.MkdirAll(filepath.Dir(path), 0o755), test.ShouldBeNil)
	test.That(t, os.WriteFile(path, []byte(content), 0o644), test.ShouldBeNil)
}

func translationRows(x, y, z float64) [][]float64 {
	return [][]float64{
		{1, 0, 0, x},
		{0, 1, 0, y},
		{0, 0, 1, z},
		{0, 0, 0, 1},
	}
}

package rimage

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"go.viam.com/test"
	"gorgonia.org/tensor"
)

func TestColorImageFromTensor(t *testing.T) {
	normalized := tensor.New(tensor.WithShape(1, 2, 3), tensor.WithBacking([]float64{0, 0.5, 1, 1, 1, 1}))
	img, err := ColorImageFromTensor(normalized)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.NRGBAAt(0, 0), test.ShouldResemble, color.NRGBA{R: 0, G: 127, B: 255, A: 255})
	test.That(t, img.NRGBAAt(1, 0), test.ShouldResemble, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	bytes := tensor.New(tensor.WithShape(1, 1, 3), tensor.WithBacking([]uint8{1, 2, 3}))
	img, err = ColorImageFromTensor(bytes)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.NRGBAAt(0, 0), test.ShouldResemble, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	// integer samples are never treated as normalized
	ones := tensor.New(tensor.WithShape(1, 1), tensor.WithBacking([]int64{1}))
	img, err = ColorImageFromTensor(ones)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.NRGBAAt(0, 0), test.ShouldResemble, color.NRGBA{R: 1, G: 1, B: 1, A: 255})

	bad := tensor.New(tensor.WithShape(1, 1, 2), tensor.WithBacking([]float64{0, 0}))
	_, err = ColorImageFromTensor(bad)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestReadColorImage(t *testing.T) {
	dir := t.TempDir()

	translucent := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	translucent.SetNRGBA(3, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 40})
	pngPath := filepath.Join(dir, "frame.png")
	test.That(t, WriteImageToFile(pngPath, translucent), test.ShouldBeNil)

	img, err := ReadColorImage(pngPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.Bounds(), test.ShouldResemble, image.Rect(0, 0, 4, 2))
	test.That(t, img.NRGBAAt(3, 1).A, test.ShouldEqual, uint8(255))
	test.That(t, img.NRGBAAt(3, 1).R, test.ShouldEqual, uint8(10))

	npyPath := writeNpy(t, dir, "frame.npy", []int{2, 2, 3}, []float32{
		0, 0, 0, 1, 1, 1,
		0.2, 0.4, 0.6, 1, 0, 0,
	})
	img, err = ReadColorImage(npyPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.NRGBAAt(1, 1), test.ShouldResemble, color.NRGBA{R: 255, A: 255})

	_, err = ReadColorImage(filepath.Join(dir, "missing.png"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestResizeColor(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for i := range src.Pix {
		src.Pix[i] = 200
		if i%4 == 3 {
			src.Pix[i] = 255
		}
	}
	dst := ResizeColor(src, 4, 2)
	test.That(t, dst.Bounds(), test.ShouldResemble, image.Rect(0, 0, 4, 2))
	test.That(t, dst.NRGBAAt(1, 1).R, test.ShouldEqual, uint8(200))
}

func TestReadEmbedding(t *testing.T) {
	dir := t.TempDir()
	backing := make([]float32, 1*2*3*4)
	for i := range backing {
		backing[i] = float32(i)
	}
	path := writeNpy(t, dir, "0.npy", []int{1, 2, 3, 4}, backing)

	emb, err := ReadEmbedding(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, []int(emb.Shape()), test.ShouldResemble, []int{1, 3, 4, 2})
	for c := 0; c < 2; c++ {
		for h := 0; h < 3; h++ {
			for w := 0; w < 4; w++ {
				v, err := emb.At(0, h, w, c)
				test.That(t, err, test.ShouldBeNil)
				test.That(t, v, test.ShouldEqual, float32(c*12+h*4+w))
			}
		}
	}

	unbatched := writeNpy(t, dir, "1.npy", []int{2, 1, 1}, []float32{7, 8})
	emb, err = ReadEmbedding(unbatched)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, []int(emb.Shape()), test.ShouldResemble, []int{1, 1, 1, 2})

	flat := writeNpy(t, dir, "2.npy", []int{2}, []float32{7, 8})
	_, err = ReadEmbedding(flat)
	test.That(t, err, test.ShouldNotBeNil)
}

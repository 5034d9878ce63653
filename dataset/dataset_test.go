package dataset

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"go.viam.com/rgbdcapture/logging"
	"go.viam.com/rgbdcapture/rimage"
	"go.viam.com/rgbdcapture/rimage/transform"
)

var testIntrinsics = transform.PinholeCameraIntrinsics{Fx: 10, Fy: 12, Ppx: 2, Ppy: 1.5, Width: 4, Height: 3}

// writeFrames stores n 4x3 frames whose color and stored depth encode the frame number.
func writeFrames(t *testing.T, dir string, n int) Config {
	t.Helper()
	cfg := Config{
		PNGDepthScale: 1000,
		Intrinsics:    testIntrinsics,
		DesiredHeight: 3,
		DesiredWidth:  4,
		Stride:        1,
		End:           -1,
	}
	for i := 0; i < n; i++ {
		img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
		dm := rimage.NewEmptyDepthMap(4, 3)
		for y := 0; y < 3; y++ {
			for x := 0; x < 4; x++ {
				img.SetNRGBA(x, y, color.NRGBA{R: uint8(10 * i), A: 255})
				dm.Set(x, y, rimage.Depth(1000*(i+1)))
			}
		}
		colorPath := filepath.Join(dir, "rgb", filepathName(i))
		depthPath := filepath.Join(dir, "depth", filepathName(i))
		test.That(t, rimage.WriteImageToFile(colorPath, img), test.ShouldBeNil)
		test.That(t, rimage.WriteDepthMapToFile(depthPath, dm), test.ShouldBeNil)

		pose := mat.NewDense(4, 4, nil)
		for j := 0; j < 4; j++ {
			pose.Set(j, j, 1)
		}
		pose.Set(0, 3, float64(i))
		cfg.ColorPaths = append(cfg.ColorPaths, colorPath)
		cfg.DepthPaths = append(cfg.DepthPaths, depthPath)
		cfg.Poses = append(cfg.Poses, pose)
	}
	return cfg
}

func filepathName(i int) string {
	return string(rune('0'+i)) + ".png"
}

func TestNewSelectsFrames(t *testing.T) {
	logger := logging.NewTestLogger(t)
	cfg := writeFrames(t, t.TempDir(), 7)

	ds, err := New(cfg, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ds.Len(), test.ShouldEqual, 7)

	cfg.Start = 1
	cfg.Stride = 2
	ds, err = New(cfg, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ds.Indices(), test.ShouldResemble, []int{1, 3, 5})

	cfg.End = 5
	ds, err = New(cfg, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ds.Indices(), test.ShouldResemble, []int{1, 3})

	cfg.End = 100
	ds, err = New(cfg, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ds.Indices(), test.ShouldResemble, []int{1, 3, 5})
}

func TestNewValidates(t *testing.T) {
	logger := logging.NewTestLogger(t)
	base := writeFrames(t, t.TempDir(), 2)

	for _, tc := range []struct {
		name   string
		mutate func(cfg *Config)
		errStr string
	}{
		{"misaligned", func(cfg *Config) { cfg.DepthPaths = cfg.DepthPaths[:1] }, "lengths differ"},
		{"stride", func(cfg *Config) { cfg.Stride = 0 }, "stride"},
		{"start", func(cfg *Config) { cfg.Start = -1 }, "start"},
		{"size", func(cfg *Config) { cfg.DesiredWidth = 0 }, "desired size"},
		{"depth scale", func(cfg *Config) { cfg.PNGDepthScale = 0 }, "depth scale"},
		{"intrinsics", func(cfg *Config) { cfg.Intrinsics = transform.PinholeCameraIntrinsics{} }, "intrinsic"},
		{"embeddings", func(cfg *Config) { cfg.EmbeddingPaths = []string{"a.npy"} }, "embeddings"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			_, err := New(cfg, logger)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.errStr)
		})
	}
}

func TestFrameResizesAndConverts(t *testing.T) {
	cfg := writeFrames(t, t.TempDir(), 3)
	cfg.DesiredWidth = 8
	cfg.DesiredHeight = 6
	ds, err := New(cfg, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	intrinsics := ds.Intrinsics()
	test.That(t, intrinsics.Fx, test.ShouldEqual, 20.0)
	test.That(t, intrinsics.Fy, test.ShouldEqual, 24.0)
	test.That(t, intrinsics.Width, test.ShouldEqual, 8)

	frame, err := ds.Frame(context.Background(), 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, frame.Index, test.ShouldEqual, 2)
	test.That(t, frame.Color.Bounds(), test.ShouldResemble, image.Rect(0, 0, 8, 6))
	test.That(t, frame.Depth, test.ShouldHaveLength, 48)
	for _, d := range frame.Depth {
		test.That(t, d, test.ShouldEqual, float32(3))
	}
	test.That(t, frame.Pose.At(0, 3), test.ShouldEqual, 2.0)
	test.That(t, frame.Embedding, test.ShouldBeNil)

	frame.Pose.Set(0, 3, 50)
	test.That(t, cfg.Poses[2].At(0, 3), test.ShouldEqual, 2.0)

	_, err = ds.Frame(context.Background(), 3)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFrameMissingDepth(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFrames(t, dir, 1)
	cfg.DepthPaths[0] = filepath.Join(dir, "depth", "absent.png")
	ds, err := New(cfg, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	_, err = ds.Frame(context.Background(), 0)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "depth for frame 0")
}

func TestFrameEmbedding(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFrames(t, dir, 1)
	embPath := filepath.Join(dir, "0.npy")
	f, err := os.Create(embPath)
	test.That(t, err, test.ShouldBeNil)
	arr := tensor.New(tensor.WithShape(1, 2, 3, 4), tensor.WithBacking(make([]float32, 24)))
	test.That(t, arr.WriteNpy(f), test.ShouldBeNil)
	test.That(t, f.Close(), test.ShouldBeNil)
	cfg.EmbeddingPaths = []string{embPath}

	cfg.EmbeddingDim = 2
	ds, err := New(cfg, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	frame, err := ds.Frame(context.Background(), 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, []int(frame.Embedding.Shape()), test.ShouldResemble, []int{1, 3, 4, 2})

	cfg.EmbeddingDim = 512
	ds, err = New(cfg, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	_, err = ds.Frame(context.Background(), 0)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "expected 512")
}

func TestLoadAll(t *testing.T) {
	cfg := writeFrames(t, t.TempDir(), 6)
	cfg.Stride = 2
	ds, err := New(cfg, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	frames, err := ds.LoadAll(context.Background(), 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, frames, test.ShouldHaveLength, 3)
	for i, frame := range frames {
		test.That(t, frame.Index, test.ShouldEqual, 2*i)
		test.That(t, frame.Color.NRGBAAt(0, 0).R, test.ShouldEqual, uint8(20*i))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ds.LoadAll(ctx, 0)
	test.That(t, err, test.ShouldNotBeNil)
}

// Package dataset replays a frame sequence at a chosen resolution, selecting frames by start,
// end and stride, and loading each selected frame on demand.
package dataset

import (
	"context"
	"image"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"go.viam.com/rgbdcapture/logging"
	"go.viam.com/rgbdcapture/rimage"
	"go.viam.com/rgbdcapture/rimage/transform"
)

// Config holds the parallel per-frame sequences of a capture plus how to sample and scale them.
// ColorPaths, DepthPaths and Poses are aligned by position; EmbeddingPaths is empty or aligned.
type Config struct {
	ColorPaths     []string
	DepthPaths     []string
	Poses          []*mat.Dense
	EmbeddingPaths []string

	// PNGDepthScale is the number of stored depth units per meter.
	PNGDepthScale float64
	// Intrinsics describe the stored images.
	Intrinsics transform.PinholeCameraIntrinsics

	DesiredHeight int
	DesiredWidth  int
	Stride        int
	Start         int
	// End is exclusive; -1 means through the last frame.
	End int
	// EmbeddingDim is the expected channel count of each embedding, 0 to skip the check.
	EmbeddingDim int
}

// Frame is one loaded sample.
type Frame struct {
	// Index is the frame's position in the full sequence.
	Index int
	Color *image.NRGBA
	// Depth holds DesiredWidth*DesiredHeight row-major samples in meters.
	Depth []float32
	Pose  *mat.Dense
	// Embedding is (batch, height, width, channels), nil when embeddings are not loaded.
	Embedding *tensor.Dense
}

// Dataset selects and loads frames described by a Config.
type Dataset struct {
	cfg        Config
	indices    []int
	intrinsics transform.PinholeCameraIntrinsics
	logger     logging.Logger
}

// New validates cfg and selects the frames in [start, end) with the given stride.
func New(cfg Config, logger logging.Logger) (*Dataset, error) {
	n := len(cfg.ColorPaths)
	if len(cfg.DepthPaths) != n || len(cfg.Poses) != n {
		return nil, errors.Errorf("sequence lengths differ: %d color, %d depth, %d poses",
			n, len(cfg.DepthPaths), len(cfg.Poses))
	}
	if len(cfg.EmbeddingPaths) != 0 && len(cfg.EmbeddingPaths) < n {
		return nil, errors.Errorf("found %d embeddings for %d frames", len(cfg.EmbeddingPaths), n)
	}
	if cfg.Stride < 1 {
		return nil, errors.Errorf("stride must be at least 1, got %d", cfg.Stride)
	}
	if cfg.Start < 0 {
		return nil, errors.Errorf("start cannot be negative, got %d", cfg.Start)
	}
	if cfg.DesiredHeight <= 0 || cfg.DesiredWidth <= 0 {
		return nil, errors.Errorf("desired size must be positive, got %dx%d", cfg.DesiredWidth, cfg.DesiredHeight)
	}
	if cfg.PNGDepthScale <= 0 {
		return nil, errors.Errorf("png depth scale must be positive, got %v", cfg.PNGDepthScale)
	}
	if err := cfg.Intrinsics.CheckValid(); err != nil {
		return nil, err
	}

	end := cfg.End
	if end < 0 || end > n {
		end = n
	}
	var indices []int
	for i := cfg.Start; i < end; i += cfg.Stride {
		indices = append(indices, i)
	}
	return &Dataset{
		cfg:        cfg,
		indices:    indices,
		intrinsics: cfg.Intrinsics.Rescale(cfg.DesiredWidth, cfg.DesiredHeight),
		logger:     logger,
	}, nil
}

// Len returns the number of selected frames.
func (ds *Dataset) Len() int {
	return len(ds.indices)
}

// Indices returns the sequence positions of the selected frames.
func (ds *Dataset) Indices() []int {
	return append([]int(nil), ds.indices...)
}

// Intrinsics returns the camera parameters at the desired resolution.
func (ds *Dataset) Intrinsics() transform.PinholeCameraIntrinsics {
	return ds.intrinsics
}

// Frame loads the i-th selected frame.
func (ds *Dataset) Frame(ctx context.Context, i int) (*Frame, error) {
	if i < 0 || i >= len(ds.indices) {
		return nil, errors.Errorf("frame %d out of range [0, %d)", i, len(ds.indices))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx := ds.indices[i]
	w, h := ds.cfg.DesiredWidth, ds.cfg.DesiredHeight

	color, err := rimage.ReadColorImage(ds.cfg.ColorPaths[idx])
	if err != nil {
		return nil, err
	}
	if b := color.Bounds(); b.Dx() != w || b.Dy() != h {
		color = toNRGBA(resize.Resize(uint(w), uint(h), color, resize.Bilinear))
	}

	dm, err := rimage.ReadDepthMapFromFile(ds.cfg.DepthPaths[idx])
	if err != nil {
		return nil, errors.Wrapf(err, "depth for frame %d", idx)
	}
	if dm.Width() != w || dm.Height() != h {
		dm = dm.Resize(w, h)
	}

	frame := &Frame{
		Index: idx,
		Color: color,
		Depth: dm.Meters(ds.cfg.PNGDepthScale),
		Pose:  mat.DenseCopyOf(ds.cfg.Poses[idx]),
	}

	if len(ds.cfg.EmbeddingPaths) != 0 {
		emb, err := rimage.ReadEmbedding(ds.cfg.EmbeddingPaths[idx])
		if err != nil {
			return nil, err
		}
		if shape := emb.Shape(); ds.cfg.EmbeddingDim > 0 && shape[len(shape)-1] != ds.cfg.EmbeddingDim {
			return nil, errors.Errorf("embedding %q has %d channels, expected %d",
				ds.cfg.EmbeddingPaths[idx], shape[len(shape)-1], ds.cfg.EmbeddingDim)
		}
		frame.Embedding = emb
	}
	return frame, nil
}

// LoadAll loads every selected frame using up to parallelism concurrent loads. A parallelism
// below 1 means no limit.
func (ds *Dataset) LoadAll(ctx context.Context, parallelism int) ([]*Frame, error) {
	frames := make([]*Frame, len(ds.indices))
	errs, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		errs.SetLimit(parallelism)
	}
	for i := range ds.indices {
		errs.Go(func() error {
			frame, err := ds.Frame(ctx, i)
			if err != nil {
				return err
			}
			frames[i] = frame
			return nil
		})
	}
	if err := errs.Wait(); err != nil {
		return nil, err
	}
	ds.logger.Debugw("frames loaded", "count", len(frames))
	return frames, nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba
	}
	return imaging.Clone(img)
}

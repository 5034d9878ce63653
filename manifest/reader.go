package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"go.viam.com/rgbdcapture/config"
	"go.viam.com/rgbdcapture/dataset"
	"go.viam.com/rgbdcapture/logging"
	"go.viam.com/rgbdcapture/rimage"
	"go.viam.com/rgbdcapture/rimage/transform"
	"go.viam.com/rgbdcapture/spatialmath"
)

// Frame is one frame of a loaded sequence with paths resolved against the capture root.
type Frame struct {
	FilePath  string
	ColorPath string
	DepthPath string
	// DepthGuessed is set when DepthPath was derived from the color path because the manifest
	// has no depth_path. Such paths are not checked for existence.
	DepthGuessed bool
	// Pose is the camera-to-world transform in the canonical convention.
	Pose       *mat.Dense
	Intrinsics transform.PinholeCameraIntrinsics
	// EmbeddingPath is empty when embeddings are not loaded.
	EmbeddingPath string
}

// Sequence is an immutable, ordered view of a capture.
type Sequence struct {
	root          string
	cfg           config.ReaderConfig
	intrinsics    transform.PinholeCameraIntrinsics
	pngDepthScale float64
	frames        []Frame
	index         FrameIndex
}

// Open validates cfg, then loads the manifest under cfg's capture root.
func Open(cfg *config.ReaderConfig, logger logging.Logger) (*Sequence, error) {
	if err := cfg.Validate(""); err != nil {
		return nil, err
	}
	m, err := Load(cfg.ManifestPath())
	if err != nil {
		return nil, err
	}
	return NewSequence(cfg.Root(), m, cfg, logger)
}

// NewSequence orders the frames of m by the numeric value of their file stems, resolves their
// paths against root and converts their poses to the canonical convention. m is not modified.
func NewSequence(root string, m *Manifest, cfg *config.ReaderConfig, logger logging.Logger) (*Sequence, error) {
	if cfg == nil {
		cfg = config.NewReaderConfig()
	}
	seq := &Sequence{
		root:       root,
		cfg:        *cfg,
		intrinsics: m.PinholeCameraIntrinsics,
	}
	scale, ok := m.PNGDepthScale()
	if !ok {
		logger.Debugw("manifest has no integer_depth_scale, using legacy default", "png_depth_scale", scale)
	}
	seq.pngDepthScale = scale

	filePaths := make([]string, len(m.Frames))
	for i, f := range m.Frames {
		filePaths[i] = f.FilePath
	}
	order := CanonicalOrder(filePaths)

	ordered := make([]string, len(order))
	seq.frames = make([]Frame, len(order))
	for pos, storageIdx := range order {
		record := m.Frames[storageIdx]
		ordered[pos] = record.FilePath
		frame, err := seq.resolveFrame(record)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %q", record.FilePath)
		}
		seq.frames[pos] = frame
	}

	index, err := NewFrameIndex(ordered)
	if err != nil {
		return nil, err
	}
	seq.index = index

	if cfg.LoadEmbeddings {
		paths, err := listEmbeddings(filepath.Join(root, cfg.EmbeddingDir), cfg.EmbeddingExt)
		if err != nil {
			return nil, err
		}
		if len(paths) != len(seq.frames) {
			logger.Warnw("embedding count does not match frame count",
				"embeddings", len(paths), "frames", len(seq.frames))
		}
		for i := range seq.frames {
			if i < len(paths) {
				seq.frames[i].EmbeddingPath = paths[i]
			}
		}
	}
	return seq, nil
}

func (seq *Sequence) resolveFrame(record FrameRecord) (Frame, error) {
	if record.FilePath == "" {
		return Frame{}, errors.New("file_path is empty")
	}
	pose, err := spatialmath.NewPoseFromRows(record.TransformMatrix)
	if err != nil {
		return Frame{}, err
	}
	frame := Frame{
		FilePath:   record.FilePath,
		ColorPath:  seq.resolve(record.FilePath),
		Pose:       spatialmath.ToCanonical(pose),
		Intrinsics: seq.intrinsics,
	}
	if record.PinholeCameraIntrinsics != nil && record.PinholeCameraIntrinsics.CheckValid() == nil {
		frame.Intrinsics = *record.PinholeCameraIntrinsics
	}
	if record.DepthPath != "" {
		frame.DepthPath = seq.resolve(record.DepthPath)
	} else {
		frame.DepthPath = seq.resolve(LegacyDepthPath(record.FilePath))
		frame.DepthGuessed = true
	}
	return frame, nil
}

func (seq *Sequence) resolve(p string) string {
	return filepath.Join(seq.root, filepath.FromSlash(p))
}

// LegacyDepthPath guesses the depth image of a color image for manifests written without
// depth_path by replacing every "rgb" in the path with "depth".
func LegacyDepthPath(filePath string) string {
	return strings.ReplaceAll(filePath, "rgb", "depth")
}

func listEmbeddings(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "cannot list embeddings")
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ext) {
			names = append(names, e.Name())
		}
	}
	SortNatural(names)
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}

// Root returns the capture directory.
func (seq *Sequence) Root() string {
	return seq.root
}

// Len returns the number of frames.
func (seq *Sequence) Len() int {
	return len(seq.frames)
}

// Intrinsics returns the manifest's camera parameters.
func (seq *Sequence) Intrinsics() transform.PinholeCameraIntrinsics {
	return seq.intrinsics
}

// PNGDepthScale returns the number of stored depth units per meter.
func (seq *Sequence) PNGDepthScale() float64 {
	return seq.pngDepthScale
}

// Frame returns the frame at canonical position i.
func (seq *Sequence) Frame(i int) (Frame, error) {
	if i < 0 || i >= len(seq.frames) {
		return Frame{}, errors.Errorf("frame %d out of range [0, %d)", i, len(seq.frames))
	}
	f := seq.frames[i]
	f.Pose = mat.DenseCopyOf(f.Pose)
	return f, nil
}

// Lookup returns the canonical position of the frame whose file_path is filePath.
func (seq *Sequence) Lookup(filePath string) (int, bool) {
	return seq.index.Lookup(filePath)
}

// ColorPaths returns the color image of every frame in order.
func (seq *Sequence) ColorPaths() []string {
	return lo.Map(seq.frames, func(f Frame, _ int) string { return f.ColorPath })
}

// DepthPaths returns the depth image of every frame in order.
func (seq *Sequence) DepthPaths() []string {
	return lo.Map(seq.frames, func(f Frame, _ int) string { return f.DepthPath })
}

// Poses returns a copy of every canonical pose in order.
func (seq *Sequence) Poses() []*mat.Dense {
	return lo.Map(seq.frames, func(f Frame, _ int) *mat.Dense { return mat.DenseCopyOf(f.Pose) })
}

// EmbeddingPaths returns the embedding of every frame in order, or nil when embeddings are not
// loaded. Frames beyond the available embeddings are left out.
func (seq *Sequence) EmbeddingPaths() []string {
	var out []string
	for _, f := range seq.frames {
		if f.EmbeddingPath == "" {
			break
		}
		out = append(out, f.EmbeddingPath)
	}
	return out
}

// ReadEmbedding loads the embedding of frame i as (batch, height, width, channels).
func (seq *Sequence) ReadEmbedding(i int) (*tensor.Dense, error) {
	f, err := seq.Frame(i)
	if err != nil {
		return nil, err
	}
	if f.EmbeddingPath == "" {
		return nil, errors.Errorf("frame %d has no embedding", i)
	}
	return rimage.ReadEmbedding(f.EmbeddingPath)
}

// DatasetConfig returns the sequence in the form consumed by dataset.New, sampled and scaled
// as the reader configuration asks.
func (seq *Sequence) DatasetConfig() dataset.Config {
	dc := dataset.Config{
		ColorPaths:     seq.ColorPaths(),
		DepthPaths:     seq.DepthPaths(),
		Poses:          seq.Poses(),
		EmbeddingPaths: seq.EmbeddingPaths(),
		PNGDepthScale:  seq.pngDepthScale,
		Intrinsics:     seq.intrinsics,
		DesiredHeight:  seq.cfg.DesiredHeight,
		DesiredWidth:   seq.cfg.DesiredWidth,
		Stride:         seq.cfg.Stride,
		Start:          seq.cfg.Start,
		End:            seq.cfg.End,
	}
	if seq.cfg.LoadEmbeddings {
		dc.EmbeddingDim = seq.cfg.EmbeddingDim
	}
	return dc
}

package manifest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/rgbdcapture/config"
	"go.viam.com/rgbdcapture/logging"
	"go.viam.com/rgbdcapture/rimage"
	"go.viam.com/rgbdcapture/spatialmath"
)

var (
	// ErrDestinationExists is returned when the output directory exists and overwriting is off.
	ErrDestinationExists = errors.New("destination already exists")
	// ErrOverwriteDeclined is returned when overwriting an existing output directory was refused.
	ErrOverwriteDeclined = errors.New("overwrite of existing destination declined")
)

// A Confirmer decides whether an existing destination may be deleted.
type Confirmer interface {
	ConfirmOverwrite(path string) (bool, error)
}

// ConfirmFunc adapts a function to a Confirmer.
type ConfirmFunc func(path string) (bool, error)

// ConfirmOverwrite calls f.
func (f ConfirmFunc) ConfirmOverwrite(path string) (bool, error) {
	return f(path)
}

// AlwaysConfirm accepts every overwrite.
var AlwaysConfirm Confirmer = ConfirmFunc(func(string) (bool, error) { return true, nil })

// WriteSummary counts what happened to the requested frames of one write.
type WriteSummary struct {
	Requested int
	Written   int
	// Skipped frames had no color source.
	Skipped int
	// WithoutDepth frames were written with no depth_path.
	WithoutDepth int
	// IdentityPoses frames used the identity transform because no pose could be read.
	IdentityPoses int
	// BytesWritten is the size of all images written, excluding the manifest itself.
	BytesWritten int64
}

// Writer converts a raw capture into a manifest directory.
type Writer struct {
	cfg       config.WriterConfig
	confirmer Confirmer
	logger    logging.Logger
}

// NewWriter validates cfg and returns a writer for it. confirmer is consulted before an
// existing destination is deleted; a nil confirmer refuses.
func NewWriter(cfg *config.WriterConfig, confirmer Confirmer, logger logging.Logger) (*Writer, error) {
	if cfg == nil {
		return nil, errors.New("writer config is required")
	}
	if err := cfg.Validate(""); err != nil {
		return nil, err
	}
	return &Writer{cfg: *cfg, confirmer: confirmer, logger: logger}, nil
}

// ManifestPath returns where the manifest will be written.
func (w *Writer) ManifestPath() string {
	return filepath.Join(w.cfg.Workdir, config.ManifestFileName)
}

// Write runs the conversion. Frames whose color source is missing are skipped, frames without a
// depth source are written color only and frames without a readable pose get the identity. Any
// other failure aborts the run.
func (w *Writer) Write(ctx context.Context) (*Manifest, *WriteSummary, error) {
	dc := &w.cfg.Data
	if info, err := os.Stat(dc.DataDir); err != nil {
		return nil, nil, errors.Wrap(err, "cannot read data_dir")
	} else if !info.IsDir() {
		return nil, nil, errors.Errorf("data_dir %q is not a directory", dc.DataDir)
	}
	if err := w.PrepareDestination(); err != nil {
		return nil, nil, err
	}

	intrinsics := dc.Intrinsics()
	depthScale := IntegerDepthScaleFor(dc.DepthScale)
	m := &Manifest{
		PinholeCameraIntrinsics: intrinsics,
		IntegerDepthScale:       &depthScale,
		Frames:                  []FrameRecord{},
	}
	summary := &WriteSummary{Requested: dc.NumFrames}

	for i := 0; i < dc.NumFrames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, errors.Wrapf(err, "stopped before frame %d", i)
		}
		w.logger.Debugf("processing frame %d/%d", i+1, dc.NumFrames)
		record, err := w.writeFrame(i, summary)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "frame %d", i)
		}
		if record == nil {
			continue
		}
		frameIntrinsics := intrinsics
		record.PinholeCameraIntrinsics = &frameIntrinsics
		m.Frames = append(m.Frames, *record)
		summary.Written++
	}

	if err := m.Save(w.ManifestPath()); err != nil {
		return nil, nil, errors.Wrap(err, "cannot write manifest")
	}
	w.logger.Infow("capture written",
		"manifest", w.ManifestPath(),
		"written", summary.Written,
		"skipped", summary.Skipped,
		"without_depth", summary.WithoutDepth,
		"identity_poses", summary.IdentityPoses,
		"bytes_written", summary.BytesWritten)
	return m, summary, nil
}

// PrepareDestination makes sure Workdir exists and is empty, deleting an existing one only when
// overwriting is enabled and confirmed. Nothing is touched when it returns an error before
// deletion.
func (w *Writer) PrepareDestination() error {
	workdir := w.cfg.Workdir
	if _, err := os.Stat(workdir); err == nil {
		if !w.cfg.Overwrite {
			return errors.Wrapf(ErrDestinationExists, "%q", workdir)
		}
		if w.confirmer == nil {
			return errors.Wrapf(ErrOverwriteDeclined, "%q", workdir)
		}
		ok, err := w.confirmer.ConfirmOverwrite(workdir)
		if err != nil {
			return errors.Wrap(err, "cannot confirm overwrite")
		}
		if !ok {
			return errors.Wrapf(ErrOverwriteDeclined, "%q", workdir)
		}
		w.logger.Infow("deleting existing destination", "workdir", workdir)
		if err := os.RemoveAll(workdir); err != nil {
			return errors.Wrapf(err, "cannot delete %q", workdir)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, "cannot inspect %q", workdir)
	}

	for _, dir := range []string{ColorDir, DepthDir} {
		if err := os.MkdirAll(filepath.Join(workdir, dir), 0o755); err != nil {
			return errors.Wrapf(err, "cannot create %q", dir)
		}
	}
	return nil
}

// writeFrame converts frame i and returns its record, or nil when the frame is skipped.
func (w *Writer) writeFrame(i int, summary *WriteSummary) (*FrameRecord, error) {
	dc := &w.cfg.Data
	colorSrc := filepath.Join(dc.DataDir, config.FramePath(dc.RGBFormat, i))
	if !w.sourceExists(colorSrc) {
		w.logger.Warnw("color source not found, skipping frame", "frame", i, "path", colorSrc)
		summary.Skipped++
		return nil, nil
	}

	colorImg, err := rimage.ReadColorImage(colorSrc)
	if err != nil {
		return nil, err
	}
	if b := colorImg.Bounds(); b.Dx() != dc.Width || b.Dy() != dc.Height {
		colorImg = rimage.ResizeColor(colorImg, dc.Width, dc.Height)
	}
	record := &FrameRecord{FilePath: path.Join(ColorDir, fmt.Sprintf("%d.png", i))}
	colorDst := filepath.Join(w.cfg.Workdir, filepath.FromSlash(record.FilePath))
	if err := rimage.WriteImageToFile(colorDst, colorImg); err != nil {
		return nil, err
	}
	summary.addFile(colorDst)

	depthSrc := filepath.Join(dc.DataDir, config.FramePath(dc.DepthFormat, i))
	if w.sourceExists(depthSrc) {
		dm, err := w.readDepth(depthSrc)
		if err != nil {
			return nil, err
		}
		record.DepthPath = path.Join(DepthDir, fmt.Sprintf("%d.png", i))
		depthDst := filepath.Join(w.cfg.Workdir, filepath.FromSlash(record.DepthPath))
		if err := rimage.WriteDepthMapToFile(depthDst, dm); err != nil {
			return nil, err
		}
		summary.addFile(depthDst)
	} else {
		w.logger.Warnw("depth source not found, writing color only", "frame", i, "path", depthSrc)
		summary.WithoutDepth++
	}

	pose := w.readPose(i, summary)
	record.TransformMatrix = spatialmath.PoseRows(pose)
	return record, nil
}

func (s *WriteSummary) addFile(p string) {
	if info, err := os.Stat(p); err == nil {
		s.BytesWritten += info.Size()
	}
}

// readDepth loads a raw depth field, converts it to meters and stores it at the configured
// depth scale and resolution.
func (w *Writer) readDepth(src string) (*rimage.DepthMap, error) {
	dc := &w.cfg.Data
	md, err := rimage.ReadMetricDepth(src)
	if err != nil {
		return nil, err
	}
	if dc.DepthInMillimeters {
		md.Scale(1.0 / 1000)
	}
	dm := md.Quantize(dc.DepthScale)
	if dm.Width() != dc.Width || dm.Height() != dc.Height {
		dm = dm.Resize(dc.Width, dc.Height)
	}
	return dm, nil
}

func (w *Writer) readPose(i int, summary *WriteSummary) *mat.Dense {
	dc := &w.cfg.Data
	if dc.PoseFormat == "" {
		summary.IdentityPoses++
		return spatialmath.NewIdentityPose()
	}
	src := filepath.Join(dc.DataDir, config.FramePath(dc.PoseFormat, i))
	pose, err := spatialmath.ReadPoseFile(src)
	if err != nil {
		w.logger.Warnw("cannot read pose, using identity", "frame", i, "path", src, "error", err)
		summary.IdentityPoses++
		return spatialmath.NewIdentityPose()
	}
	return pose
}

func (w *Writer) sourceExists(p string) bool {
	_, err := os.Stat(p)
	if err == nil {
		return true
	}
	if !errors.Is(err, fs.ErrNotExist) {
		w.logger.Debugw("cannot stat source", "path", p, "error", err)
	}
	return false
}

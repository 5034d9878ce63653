package spatialmath

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/rgbdcapture/rimage"
)

// ReadPoseFile loads a camera-to-world pose from a numpy array (.npy) of shape (4, 4), (3, 4) or
// (16,), or from a text file holding 12 or 16 whitespace-delimited numbers in row-major order.
func ReadPoseFile(path string) (*mat.Dense, error) {
	if strings.EqualFold(filepath.Ext(path), rimage.NpyExt) {
		t, err := rimage.ReadNpyFile(path)
		if err != nil {
			return nil, err
		}
		values, err := rimage.Float64s(t)
		if err != nil {
			return nil, err
		}
		pose, err := newPoseFromValues(values)
		if err != nil {
			return nil, errors.Wrapf(err, "pose array %q has shape %v", path, t.Shape())
		}
		return pose, nil
	}

	//nolint:gosec
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	values, err := spaceDelimitedStringToSlice(string(raw))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse pose text %q", path)
	}
	pose, err := newPoseFromValues(values)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse pose text %q", path)
	}
	return pose, nil
}

package rimage

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// MetricDepth is a row-major field of floating point depth samples, as produced by a sensor
// before quantization. Units are whatever the source used until Scale is applied.
type MetricDepth struct {
	Width  int
	Height int
	Values []float64
}

// ReadMetricDepth loads a raw depth field from a numpy array of shape (H, W) or (H, W, 1), or
// from a grayscale image whose samples are taken at face value.
func ReadMetricDepth(path string) (*MetricDepth, error) {
	if strings.EqualFold(filepath.Ext(path), NpyExt) {
		t, err := ReadNpyFile(path)
		if err != nil {
			return nil, err
		}
		shape := t.Shape()
		if len(shape) == 3 && shape[2] == 1 {
			shape = shape[:2]
		}
		if len(shape) != 2 {
			return nil, errors.Errorf("depth array %q must have shape (H, W), got %v", path, t.Shape())
		}
		values, err := Float64s(t)
		if err != nil {
			return nil, err
		}
		return &MetricDepth{Width: shape[1], Height: shape[0], Values: values}, nil
	}

	img, err := ReadImageFromFile(path)
	if err != nil {
		return nil, err
	}
	dm, err := ConvertImageToDepthMap(img)
	if err != nil {
		return nil, err
	}
	md := &MetricDepth{Width: dm.width, Height: dm.height, Values: make([]float64, len(dm.data))}
	for i, d := range dm.data {
		md.Values[i] = float64(d)
	}
	return md, nil
}

// Scale multiplies every sample by factor in place.
func (md *MetricDepth) Scale(factor float64) {
	for i := range md.Values {
		md.Values[i] *= factor
	}
}

// Quantize stores every sample as depth*depthScale truncated to an unsigned 16-bit integer.
func (md *MetricDepth) Quantize(depthScale float64) *DepthMap {
	dm := NewEmptyDepthMap(md.Width, md.Height)
	for i, v := range md.Values {
		dm.data[i] = QuantizeDepth(v, depthScale)
	}
	return dm
}

// Package manifest converts raw RGB-D captures into an indexed manifest (transforms.json plus
// normalized rgb/ and depth/ images) and replays such a manifest as an ordered frame sequence.
package manifest

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"go.viam.com/rgbdcapture/rimage"
	"go.viam.com/rgbdcapture/rimage/transform"
)

const (
	// DefaultPNGDepthScale is the number of stored depth units per meter assumed for manifests
	// that do not carry integer_depth_scale.
	DefaultPNGDepthScale = 6553.5

	// ColorDir and DepthDir are the asset directories inside a capture.
	ColorDir = "rgb"
	DepthDir = "depth"

	// jsonIndent is the indentation of a written manifest.
	jsonIndent = "    "
)

// Manifest is the root of transforms.json. The camera intrinsics are the default for every frame.
type Manifest struct {
	transform.PinholeCameraIntrinsics
	// IntegerDepthScale is the writer's depth scale divided by 65535.
	IntegerDepthScale *float64      `json:"integer_depth_scale,omitempty"`
	Frames            []FrameRecord `json:"frames"`
}

// FrameRecord describes one captured instant.
type FrameRecord struct {
	// TransformMatrix is the row-major 4x4 camera-to-world pose in the capture convention.
	TransformMatrix [][]float64 `json:"transform_matrix"`
	// FilePath is the color image relative to the capture root. It is unique within a manifest.
	FilePath string `json:"file_path"`
	// DepthPath is the depth image relative to the capture root, empty for color-only frames.
	DepthPath string `json:"depth_path,omitempty"`
	// Per-frame intrinsics, when present, override the manifest's.
	*transform.PinholeCameraIntrinsics
}

// IntegerDepthScaleFor returns the integer_depth_scale recorded for a writer depth scale.
func IntegerDepthScaleFor(depthScale float64) float64 {
	return depthScale / float64(rimage.MaxDepth)
}

// PNGDepthScale returns the number of stored depth units per meter, 1/integer_depth_scale, or
// the legacy default when the manifest does not say. ok is false when the default was used.
func (m *Manifest) PNGDepthScale() (scale float64, ok bool) {
	if m.IntegerDepthScale == nil || *m.IntegerDepthScale <= 0 {
		return DefaultPNGDepthScale, false
	}
	return 1 / *m.IntegerDepthScale, true
}

// Load reads and decodes a manifest. A missing or malformed file is an error.
func Load(path string) (*Manifest, error) {
	//nolint:gosec
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read manifest")
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrapf(err, "manifest %q is not valid json", path)
	}
	return &m, nil
}

// Save writes the manifest as indented json.
func (m *Manifest) Save(path string) error {
	out := *m
	if out.Frames == nil {
		out.Frames = []FrameRecord{}
	}
	raw, err := json.MarshalIndent(&out, "", jsonIndent)
	if err != nil {
		return err
	}
	//nolint:gosec
	return os.WriteFile(path, raw, 0o644)
}

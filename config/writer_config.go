package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/rgbdcapture/rimage/transform"
)

// Defaults applied to a writer configuration before a file is decoded on top of it.
const (
	DefaultDepthScale = 1000.0
	DefaultFx         = 1425.20648
	DefaultFy         = 1514.51572
	DefaultPpx        = 960.0
	DefaultPpy        = 540.0
	DefaultWidth      = 1920
	DefaultHeight     = 1080
)

// WriterConfig configures one run of the manifest writer.
type WriterConfig struct {
	// Workdir is the output directory that receives transforms.json, rgb/ and depth/.
	Workdir string `json:"workdir"`
	// Overwrite allows replacing an existing Workdir once the deletion is confirmed.
	Overwrite bool       `json:"overwrite"`
	Data      DataConfig `json:"data_config"`
}

// DataConfig describes the raw capture and the camera that recorded it.
type DataConfig struct {
	DataDir   string `json:"data_dir"`
	NumFrames int    `json:"num_frames"`
	// RGBFormat, DepthFormat and PoseFormat are fmt patterns taking the frame index, relative to
	// DataDir, e.g. "color/frame_%05d.jpg". PoseFormat is optional.
	RGBFormat   string `json:"rgb_format"`
	DepthFormat string `json:"depth_format"`
	PoseFormat  string `json:"pose_format,omitempty"`

	// DepthScale is the number of stored units per meter.
	DepthScale         float64 `json:"depth_scale"`
	DepthInMillimeters bool    `json:"depth_in_millimeters"`

	// IntrinsicsFile, when set, replaces the inline intrinsics below.
	IntrinsicsFile string  `json:"intrinsics_file,omitempty"`
	Fx             float64 `json:"fl_x"`
	Fy             float64 `json:"fl_y"`
	Ppx            float64 `json:"cx"`
	Ppy            float64 `json:"cy"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
}

// NewWriterConfig returns a configuration holding every default.
func NewWriterConfig() *WriterConfig {
	return &WriterConfig{
		Data: DataConfig{
			DepthScale: DefaultDepthScale,
			Fx:         DefaultFx,
			Fy:         DefaultFy,
			Ppx:        DefaultPpx,
			Ppy:        DefaultPpy,
			Width:      DefaultWidth,
			Height:     DefaultHeight,
		},
	}
}

// Intrinsics returns the camera parameters shared by every written frame.
func (dc *DataConfig) Intrinsics() transform.PinholeCameraIntrinsics {
	return transform.PinholeCameraIntrinsics{
		Fx:     dc.Fx,
		Fy:     dc.Fy,
		Ppx:    dc.Ppx,
		Ppy:    dc.Ppy,
		Width:  dc.Width,
		Height: dc.Height,
	}
}

// SetIntrinsics overwrites the inline camera parameters.
func (dc *DataConfig) SetIntrinsics(intrinsics transform.PinholeCameraIntrinsics) {
	dc.Fx = intrinsics.Fx
	dc.Fy = intrinsics.Fy
	dc.Ppx = intrinsics.Ppx
	dc.Ppy = intrinsics.Ppy
	dc.Width = intrinsics.Width
	dc.Height = intrinsics.Height
}

// Validate ensures all parts of the config are valid.
func (cfg *WriterConfig) Validate(path string) error {
	if cfg.Workdir == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "workdir")
	}
	return cfg.Data.Validate(joinPath(path, "data_config"))
}

// Validate ensures all parts of the config are valid.
func (dc *DataConfig) Validate(path string) error {
	if dc.DataDir == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "data_dir")
	}
	if dc.NumFrames <= 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("num_frames must be positive, got %d", dc.NumFrames))
	}
	if dc.RGBFormat == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "rgb_format")
	}
	if err := CheckIndexPattern(dc.RGBFormat); err != nil {
		return utils.NewConfigValidationError(path, errors.Wrap(err, "rgb_format"))
	}
	if dc.DepthFormat == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "depth_format")
	}
	if err := CheckIndexPattern(dc.DepthFormat); err != nil {
		return utils.NewConfigValidationError(path, errors.Wrap(err, "depth_format"))
	}
	if dc.PoseFormat != "" {
		if err := CheckIndexPattern(dc.PoseFormat); err != nil {
			return utils.NewConfigValidationError(path, errors.Wrap(err, "pose_format"))
		}
	}
	if dc.DepthScale <= 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("depth_scale must be positive, got %v", dc.DepthScale))
	}
	intrinsics := dc.Intrinsics()
	if err := intrinsics.CheckValid(); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	return nil
}

// CheckIndexPattern verifies that pattern formats exactly one integer frame index.
func CheckIndexPattern(pattern string) error {
	formatted := fmt.Sprintf(pattern, 7)
	if strings.Contains(formatted, "%!") {
		return errors.Errorf("pattern %q must contain exactly one integer verb such as %%d or %%05d", pattern)
	}
	return nil
}

// FramePath expands pattern for frame index i.
func FramePath(pattern string, i int) string {
	return fmt.Sprintf(pattern, i)
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

// Package transform holds the pinhole camera model shared by every frame of a capture.
package transform

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/mat"
)

// ErrNoIntrinsics is when a camera does not have intrinsics parameters or other parameters.
var ErrNoIntrinsics = errors.New("camera intrinsic parameters are not available")

// NewNoIntrinsicsError is used when the intriniscs are not defined.
func NewNoIntrinsicsError(msg string) error {
	return errors.Wrap(ErrNoIntrinsics, msg)
}

// PinholeCameraIntrinsics holds the parameters necessary to do a perspective projection of a 3D scene to the 2D plane.
// The json names match the capture manifest.
type PinholeCameraIntrinsics struct {
	Fx     float64 `json:"fl_x"`
	Fy     float64 `json:"fl_y"`
	Ppx    float64 `json:"cx"`
	Ppy    float64 `json:"cy"`
	Width  int     `json:"w"`
	Height int     `json:"h"`
}

// CheckValid checks if the fields for PinholeCameraIntrinsics have valid inputs.
func (params *PinholeCameraIntrinsics) CheckValid() error {
	if params == nil {
		return NewNoIntrinsicsError("Intrinsics do not exist")
	}
	if params.Width <= 0 || params.Height <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid size (%#v, %#v)", params.Width, params.Height))
	}
	if params.Fx <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid focal length Fx = %#v", params.Fx))
	}
	if params.Fy <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid focal length Fy = %#v", params.Fy))
	}
	if params.Ppx < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid principal X point Ppx = %#v", params.Ppx))
	}
	if params.Ppy < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid principal Y point Ppy = %#v", params.Ppy))
	}
	return nil
}

// NewPinholeCameraIntrinsicsFromJSONFile takes in a file path to a JSON and turns it into PinholeCameraIntrinsics.
func NewPinholeCameraIntrinsicsFromJSONFile(jsonPath string) (*PinholeCameraIntrinsics, error) {
	//nolint:gosec
	jsonFile, err := os.Open(jsonPath)
	if err != nil {
		return nil, errors.Wrap(err, "error opening JSON file")
	}
	defer utils.UncheckedErrorFunc(jsonFile.Close)

	byteValue, err := io.ReadAll(jsonFile)
	if err != nil {
		return nil, errors.Wrap(err, "error reading JSON data")
	}
	intrinsics := &PinholeCameraIntrinsics{}
	if err := json.Unmarshal(byteValue, intrinsics); err != nil {
		return nil, errors.Wrap(err, "error parsing JSON string")
	}
	return intrinsics, nil
}

// Rescale returns the intrinsics of the same camera observed at a width x height resolution.
// Focal lengths and principal point scale with the per-axis resize ratio.
func (params PinholeCameraIntrinsics) Rescale(width, height int) PinholeCameraIntrinsics {
	if params.Width == 0 || params.Height == 0 {
		return params
	}
	sx := float64(width) / float64(params.Width)
	sy := float64(height) / float64(params.Height)
	return PinholeCameraIntrinsics{
		Fx:     params.Fx * sx,
		Fy:     params.Fy * sy,
		Ppx:    params.Ppx * sx,
		Ppy:    params.Ppy * sy,
		Width:  width,
		Height: height,
	}
}

// Matrix returns the 4x4 homogeneous camera matrix
//
//	| fx  0 cx 0 |
//	|  0 fy cy 0 |
//	|  0  0  1 0 |
//	|  0  0  0 1 |
func (params PinholeCameraIntrinsics) Matrix() *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		params.Fx, 0, params.Ppx, 0,
		0, params.Fy, params.Ppy, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

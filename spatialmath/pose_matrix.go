// Package spatialmath holds the 4x4 homogeneous pose algebra used for camera-to-world transforms.
package spatialmath

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// NewIdentityPose returns the 4x4 identity transform.
func NewIdentityPose() *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

// NewPoseFromRows builds a pose from row-major rows. A 3x4 matrix gets the homogeneous row
// [0 0 0 1] appended.
func NewPoseFromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) != 3 && len(rows) != 4 {
		return nil, errors.Errorf("pose must have 3 or 4 rows, got %d", len(rows))
	}
	data := make([]float64, 0, 16)
	for i, row := range rows {
		if len(row) != 4 {
			return nil, errors.Errorf("pose row %d must have 4 columns, got %d", i, len(row))
		}
		data = append(data, row...)
	}
	return newPoseFromValues(data)
}

// newPoseFromValues accepts 12 (3x4) or 16 (4x4) row-major values.
func newPoseFromValues(values []float64) (*mat.Dense, error) {
	switch len(values) {
	case 16:
		return mat.NewDense(4, 4, append([]float64(nil), values...)), nil
	case 12:
		data := append(append([]float64(nil), values...), 0, 0, 0, 1)
		return mat.NewDense(4, 4, data), nil
	default:
		return nil, errors.Errorf("pose needs 12 or 16 values, got %d", len(values))
	}
}

// PoseRows returns the matrix as row-major nested slices, the layout used by `transform_matrix`.
func PoseRows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		rows[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			rows[i][j] = m.At(i, j)
		}
	}
	return rows
}

// Translation returns the translation column of a homogeneous pose.
func Translation(m mat.Matrix) r3.Vector {
	return r3.Vector{X: m.At(0, 3), Y: m.At(1, 3), Z: m.At(2, 3)}
}

// PosesAlmostEqual compares two poses element-wise within tol.
func PosesAlmostEqual(a, b mat.Matrix, tol float64) bool {
	return mat.EqualApprox(a, b, tol)
}

package spatialmath

import (
	"gonum.org/v1/gonum/mat"
)

// ConversionMatrix returns diag(1, -1, -1, 1), the reflection that flips the y and z camera
// axes between the capture convention (y up, looking down -z) and the SLAM convention
// (y down, looking down +z).
func ConversionMatrix() *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, -1, 0, 0,
		0, 0, -1, 0,
		0, 0, 0, 1,
	})
}

// ConvertPose returns P * c2w * P^T.
func ConvertPose(p, c2w mat.Matrix) *mat.Dense {
	var left, out mat.Dense
	left.Mul(p, c2w)
	out.Mul(&left, p.T())
	return &out
}

// ToCanonical converts a camera-to-world pose from the capture convention to the canonical
// SLAM convention. P is symmetric and its own inverse, so applying ToCanonical to its own
// output returns the original pose.
func ToCanonical(c2w mat.Matrix) *mat.Dense {
	return ConvertPose(ConversionMatrix(), c2w)
}

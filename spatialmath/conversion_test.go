package spatialmath

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

func randomPose(rng *rand.Rand) *mat.Dense {
	data := make([]float64, 16)
	for i := range data {
		data[i] = rng.Float64()*20 - 10
	}
	return mat.NewDense(4, 4, data)
}

func TestConversionIsInvolution(t *testing.T) {
	p := ConversionMatrix()
	var pp mat.Dense
	pp.Mul(p, p)
	test.That(t, mat.Equal(&pp, NewIdentityPose()), test.ShouldBeTrue)
	test.That(t, mat.Equal(p, p.T()), test.ShouldBeTrue)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		pose := randomPose(rng)
		twice := ToCanonical(ToCanonical(pose))
		test.That(t, PosesAlmostEqual(twice, pose, 1e-12), test.ShouldBeTrue)
	}
}

func TestToCanonical(t *testing.T) {
	pose, err := NewPoseFromRows([][]float64{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
		{0, 0, 0, 1},
	})
	test.That(t, err, test.ShouldBeNil)

	canonical := ToCanonical(pose)
	test.That(t, PoseRows(canonical), test.ShouldResemble, [][]float64{
		{1, -2, -3, 4},
		{-5, 6, 7, -8},
		{-9, 10, 11, -12},
		{0, 0, 0, 1},
	})
	test.That(t, Translation(canonical), test.ShouldResemble, r3.Vector{X: 4, Y: -8, Z: -12})

	// the input is left untouched
	test.That(t, pose.At(0, 1), test.ShouldEqual, 2.)

	test.That(t, PosesAlmostEqual(ToCanonical(NewIdentityPose()), NewIdentityPose(), 0), test.ShouldBeTrue)
}

func TestConvertPoseAsymmetric(t *testing.T) {
	// an arbitrary non-symmetric conversion is not an involution
	p := mat.NewDense(4, 4, []float64{
		0, 1, 0, 0,
		0, 0, 1, 0,
		1, 0, 0, 0,
		0, 0, 0, 1,
	})
	rng := rand.New(rand.NewSource(3))
	pose := randomPose(rng)
	twice := ConvertPose(p, ConvertPose(p, pose))
	test.That(t, PosesAlmostEqual(twice, pose, 1e-9), test.ShouldBeFalse)
}

func TestNewPoseFromRows(t *testing.T) {
	pose, err := NewPoseFromRows([][]float64{
		{1, 0, 0, 1},
		{0, 1, 0, 2},
		{0, 0, 1, 3},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.At(3, 3), test.ShouldEqual, 1.)
	test.That(t, Translation(pose), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})

	_, err = NewPoseFromRows([][]float64{{1, 2, 3, 4}})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewPoseFromRows([][]float64{{1}, {2}, {3}, {4}})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestReadPoseFile(t *testing.T) {
	dir := t.TempDir()

	textPath := filepath.Join(dir, "0.txt")
	test.That(t, os.WriteFile(textPath, []byte("1 0 0 0.5\n0 1 0 -1\n0 0 1 2\n0 0 0 1\n"), 0o600), test.ShouldBeNil)
	pose, err := ReadPoseFile(textPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, Translation(pose), test.ShouldResemble, r3.Vector{X: 0.5, Y: -1, Z: 2})

	kittiPath := filepath.Join(dir, "1.txt")
	test.That(t, os.WriteFile(kittiPath, []byte("1 0 0 1 0 1 0 2 0 0 1 3"), 0o600), test.ShouldBeNil)
	pose, err = ReadPoseFile(kittiPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.At(3, 3), test.ShouldEqual, 1.)

	badPath := filepath.Join(dir, "2.txt")
	test.That(t, os.WriteFile(badPath, []byte("1 0 zero"), 0o600), test.ShouldBeNil)
	_, err = ReadPoseFile(badPath)
	test.That(t, err, test.ShouldNotBeNil)

	shortPath := filepath.Join(dir, "3.txt")
	test.That(t, os.WriteFile(shortPath, []byte("1 0 0"), 0o600), test.ShouldBeNil)
	_, err = ReadPoseFile(shortPath)
	test.That(t, err, test.ShouldNotBeNil)

	npyPath := filepath.Join(dir, "4.npy")
	f, err := os.Create(npyPath)
	test.That(t, err, test.ShouldBeNil)
	arr := tensor.New(tensor.WithShape(4, 4), tensor.WithBacking([]float32{
		1, 0, 0, 7,
		0, 1, 0, 8,
		0, 0, 1, 9,
		0, 0, 0, 1,
	}))
	test.That(t, arr.WriteNpy(f), test.ShouldBeNil)
	test.That(t, f.Close(), test.ShouldBeNil)
	pose, err = ReadPoseFile(npyPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, Translation(pose), test.ShouldResemble, r3.Vector{X: 7, Y: 8, Z: 9})

	_, err = ReadPoseFile(filepath.Join(dir, "missing.txt"))
	test.That(t, err, test.ShouldNotBeNil)
}

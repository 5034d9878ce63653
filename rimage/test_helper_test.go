package rimage

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
	"gorgonia.org/tensor"
)

func writeNpy(t *testing.T, dir, name string, shape []int, backing interface{}) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	test.That(t, err, test.ShouldBeNil)
	defer f.Close()
	arr := tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing))
	test.That(t, arr.WriteNpy(f), test.ShouldBeNil)
	return path
}

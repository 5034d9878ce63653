package rimage

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
	"go.viam.com/utils"
	"gorgonia.org/tensor"
)

// NpyExt is the file extension of raw numpy arrays.
const NpyExt = ".npy"

// ReadNpyFile reads a numpy array from the given path into a dense tensor.
func ReadNpyFile(path string) (*tensor.Dense, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)

	t := new(tensor.Dense)
	if err := t.ReadNpy(bufio.NewReader(f)); err != nil {
		return nil, errors.Wrapf(err, "cannot read numpy array from %q", path)
	}
	return t, nil
}

// Float64s returns a copy of the tensor's backing data widened to float64, in row-major order.
func Float64s(t *tensor.Dense) ([]float64, error) {
	switch data := t.Data().(type) {
	case []float64:
		out := make([]float64, len(data))
		copy(out, data)
		return out, nil
	case []float32:
		return widen(data), nil
	case []int:
		return widen(data), nil
	case []int8:
		return widen(data), nil
	case []int16:
		return widen(data), nil
	case []int32:
		return widen(data), nil
	case []int64:
		return widen(data), nil
	case []uint:
		return widen(data), nil
	case []uint8:
		return widen(data), nil
	case []uint16:
		return widen(data), nil
	case []uint32:
		return widen(data), nil
	case []uint64:
		return widen(data), nil
	case []bool:
		out := make([]float64, len(data))
		for i, b := range data {
			if b {
				out[i] = 1
			}
		}
		return out, nil
	default:
		return nil, errors.Errorf("unsupported numpy dtype %v", t.Dtype())
	}
}

// IsFloating reports whether the tensor holds floating point samples.
func IsFloating(t *tensor.Dense) bool {
	dt := t.Dtype()
	return dt == tensor.Float64 || dt == tensor.Float32
}

type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32
}

func widen[T number](data []T) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out
}

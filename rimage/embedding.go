package rimage

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// ReadEmbedding loads a feature map stored channel-first as (batch, channels, height, width), or
// (channels, height, width) for a single item, and returns it channel-last as
// (batch, height, width, channels).
func ReadEmbedding(path string) (*tensor.Dense, error) {
	t, err := ReadNpyFile(path)
	if err != nil {
		return nil, err
	}
	shape := t.Shape().Clone()
	switch len(shape) {
	case 3:
		if err := t.Reshape(1, shape[0], shape[1], shape[2]); err != nil {
			return nil, errors.Wrapf(err, "cannot add batch axis to embedding %q", path)
		}
	case 4:
	default:
		return nil, errors.Errorf("embedding %q must have 3 or 4 axes, got shape %v", path, shape)
	}
	if err := t.T(0, 2, 3, 1); err != nil {
		return nil, errors.Wrapf(err, "cannot permute embedding %q", path)
	}
	if err := t.Transpose(); err != nil {
		return nil, errors.Wrapf(err, "cannot permute embedding %q", path)
	}
	return t, nil
}

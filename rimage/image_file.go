package rimage

import (
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "github.com/lmittmann/ppm" // register ppm
	"github.com/pkg/errors"
	_ "github.com/xfmoulet/qoi" // register qoi
	"go.uber.org/multierr"
)

// ReadImageFromFile decodes the image at path. png, jpeg, gif, bmp, tiff, ppm and qoi are
// accepted, and 16-bit grayscale PNGs keep their full precision.
func ReadImageFromFile(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot decode image %q", path)
	}
	return img, nil
}

// ReadDepthMapFromFile reads a 16-bit depth PNG.
func ReadDepthMapFromFile(path string) (*DepthMap, error) {
	img, err := ReadImageFromFile(path)
	if err != nil {
		return nil, err
	}
	return ConvertImageToDepthMap(img)
}

// WriteImageToFile losslessly encodes img as a PNG at path, creating parent directories.
func WriteImageToFile(path string, img image.Image) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	return png.Encode(f, img)
}

// WriteDepthMapToFile stores dm as a 16-bit grayscale PNG at path.
func WriteDepthMapToFile(path string, dm *DepthMap) error {
	return WriteImageToFile(path, dm.ToGray16Picture())
}

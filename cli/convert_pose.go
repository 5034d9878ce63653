package cli

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/rgbdcapture/spatialmath"
)

// ConvertPoseAction prints a pose file in the canonical camera convention.
func ConvertPoseAction(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return errors.New("expected exactly one pose file")
	}
	pose, err := spatialmath.ReadPoseFile(c.Args().First())
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%v", mat.Formatted(spatialmath.ToCanonical(pose)))
	return nil
}

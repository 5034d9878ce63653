package cli

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/rgbdcapture/config"
	"go.viam.com/rgbdcapture/dataset"
	"go.viam.com/rgbdcapture/manifest"
)

// InspectAction prints the frames of a capture in canonical order and optionally loads them.
func InspectAction(c *cli.Context) error {
	overrides, err := parseOverrides(c.StringSlice(generalFlagSet))
	if err != nil {
		return err
	}
	if c.Args().Len() > 0 {
		overrides["basedir"] = c.Args().First()
		overrides["sequence"] = ""
	} else if !c.IsSet(generalFlagConfig) {
		return errors.New("a capture directory or --config is required")
	}
	cfg, err := config.ReadReaderConfig(c.Path(generalFlagConfig), overrides)
	if err != nil {
		return err
	}

	logger, closeLog := newLogger(c, "rgbd.inspect")
	defer utils.UncheckedErrorFunc(closeLog)
	seq, err := manifest.Open(cfg, logger)
	if err != nil {
		return err
	}
	intrinsics := seq.Intrinsics()
	printf(c.App.Writer, "%s", seq.Root())
	printf(c.App.Writer, "intrinsics: fl_x=%g fl_y=%g cx=%g cy=%g size=%dx%d",
		intrinsics.Fx, intrinsics.Fy, intrinsics.Ppx, intrinsics.Ppy, intrinsics.Width, intrinsics.Height)
	printf(c.App.Writer, "K = %v", mat.Formatted(intrinsics.Matrix(), mat.Prefix("    "), mat.Squeeze()))
	printf(c.App.Writer, "%s", seq.String())

	if !c.Bool(inspectFlagVerify) {
		return nil
	}
	ds, err := dataset.New(seq.DatasetConfig(), logger)
	if err != nil {
		return err
	}
	frames, err := ds.LoadAll(c.Context, c.Int(inspectFlagParallel))
	if err != nil {
		return errors.Wrap(err, "verification failed")
	}
	printf(c.App.Writer, "Verified %d frames at %dx%d", len(frames), cfg.DesiredWidth, cfg.DesiredHeight)
	depth, err := dataset.SummarizeDepth(frames)
	if err != nil {
		warningf(c.App.ErrWriter, "%v", err)
		return nil
	}
	printf(c.App.Writer, "depth (m): min=%.3f median=%.3f max=%.3f, %d of %d samples valid",
		depth.Min, depth.Median, depth.Max, depth.Valid, depth.Total)
	return nil
}

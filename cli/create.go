package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.viam.com/utils"

	"go.viam.com/rgbdcapture/config"
	"go.viam.com/rgbdcapture/manifest"
)

// CreateAction converts the raw capture described by a writer config into a manifest directory.
func CreateAction(c *cli.Context) error {
	overrides, err := parseOverrides(c.StringSlice(generalFlagSet))
	if err != nil {
		return err
	}
	if c.IsSet(createFlagWorkdir) {
		overrides["workdir"] = c.Path(createFlagWorkdir)
	}
	if c.IsSet(createFlagDataDir) {
		overrides["data_config.data_dir"] = c.Path(createFlagDataDir)
	}
	if c.IsSet(createFlagNumFrames) {
		overrides["data_config.num_frames"] = c.Int(createFlagNumFrames)
	}
	if c.IsSet(createFlagOverwrite) {
		overrides["overwrite"] = c.Bool(createFlagOverwrite)
	}
	cfg, err := config.ReadWriterConfig(c.Path(generalFlagConfig), overrides)
	if err != nil {
		return err
	}

	confirmer, err := overwriteConfirmer(c, cfg)
	if err != nil {
		return err
	}
	logger, closeLog := newLogger(c, "rgbd.create")
	defer utils.UncheckedErrorFunc(closeLog)
	w, err := manifest.NewWriter(cfg, confirmer, logger)
	if err != nil {
		return err
	}

	spinner, err := startSpinner(c, fmt.Sprintf("Writing %d frames to %s", cfg.Data.NumFrames, cfg.Workdir))
	if err != nil {
		return err
	}
	m, summary, err := w.Write(c.Context)
	if err != nil {
		spinner.Fail(err.Error())
		return err
	}
	spinner.Success(fmt.Sprintf("Wrote %d frames", len(m.Frames)))

	printf(c.App.Writer, "%s", summary.String())
	if summary.Skipped > 0 {
		warningf(c.App.ErrWriter, "%d of %d frames had no color image and were skipped", summary.Skipped, summary.Requested)
	}
	printf(c.App.Writer, "Manifest written to %s", w.ManifestPath())
	return nil
}

// overwriteConfirmer asks before any spinner starts whether an existing workdir may be deleted.
// The answer is handed to the writer, which makes the final decision.
func overwriteConfirmer(c *cli.Context, cfg *config.WriterConfig) (manifest.Confirmer, error) {
	if c.Bool(createFlagYes) {
		return manifest.AlwaysConfirm, nil
	}
	if !cfg.Overwrite {
		return nil, nil
	}
	if _, err := os.Stat(cfg.Workdir); err != nil {
		return nil, nil
	}
	ok, err := defaultConfirmPrompt(fmt.Sprintf("%s already exists. Delete it and write a new capture?", cfg.Workdir))
	if err != nil {
		return nil, err
	}
	return manifest.ConfirmFunc(func(string) (bool, error) { return ok, nil }), nil
}

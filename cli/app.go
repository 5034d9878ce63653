// Package cli contains the rgbd command line tool: building capture manifests from raw
// recordings and inspecting existing captures.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	generalFlagDebug   = "debug"
	generalFlagLogFile = "log-file"
	generalFlagConfig  = "config"
	generalFlagSet     = "set"

	createFlagWorkdir   = "workdir"
	createFlagDataDir   = "data-dir"
	createFlagNumFrames = "num-frames"
	createFlagOverwrite = "overwrite"
	createFlagYes       = "yes"

	inspectFlagVerify   = "verify"
	inspectFlagParallel = "parallel"
)

func newSetFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:  generalFlagSet,
		Usage: "override a config value, e.g. --set data_config.depth_scale=5000 (repeatable)",
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:            "rgbd",
		Usage:           "build and inspect RGB-D capture manifests",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    generalFlagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.PathFlag{
				Name:      generalFlagLogFile,
				TakesFile: true,
				Usage:     "also append log lines to `FILE`, rotated once it grows past 64MB",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "convert a raw capture into transforms.json with rgb/ and depth/ images",
				UsageText: "rgbd create --config <writer.json> [other options]",
				Flags: []cli.Flag{
					&cli.PathFlag{
						Name:      generalFlagConfig,
						Aliases:   []string{"c"},
						Required:  true,
						TakesFile: true,
						Usage:     "load the writer configuration from `FILE`",
					},
					&cli.PathFlag{
						Name:  createFlagWorkdir,
						Usage: "output directory, replaces workdir from the config",
					},
					&cli.PathFlag{
						Name:  createFlagDataDir,
						Usage: "raw capture directory, replaces data_config.data_dir from the config",
					},
					&cli.IntFlag{
						Name:  createFlagNumFrames,
						Usage: "number of frame indices to convert, replaces data_config.num_frames",
					},
					&cli.BoolFlag{
						Name:  createFlagOverwrite,
						Usage: "replace an existing output directory",
					},
					&cli.BoolFlag{
						Name:    createFlagYes,
						Aliases: []string{"y"},
						Usage:   "do not ask before replacing an existing output directory",
					},
					newSetFlag(),
				},
				Action: CreateAction,
			},
			{
				Name:      "inspect",
				Usage:     "print the frames of a capture in canonical order",
				ArgsUsage: "<capture-dir>",
				Flags: []cli.Flag{
					&cli.PathFlag{
						Name:      generalFlagConfig,
						Aliases:   []string{"c"},
						TakesFile: true,
						Usage:     "load the reader configuration from `FILE`",
					},
					&cli.BoolFlag{
						Name:  inspectFlagVerify,
						Usage: "load every selected frame to check that its images can be read",
					},
					&cli.IntFlag{
						Name:  inspectFlagParallel,
						Value: 4,
						Usage: "number of frames loaded at once with --verify",
					},
					newSetFlag(),
				},
				Action: InspectAction,
			},
			{
				Name:      "schema",
				Usage:     "print the JSON schema of a manifest or configuration file",
				ArgsUsage: "[manifest|writer-config|reader-config]",
				Action:    SchemaAction,
			},
			{
				Name:      "convert-pose",
				Usage:     "print a pose file converted to the canonical camera convention",
				ArgsUsage: "<pose-file>",
				Action:    ConvertPoseAction,
			},
		},
	}
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app := newApp()
	app.Writer = out
	app.ErrWriter = errOut
	return app
}

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/rgbdcapture/logging"
)

var warningColor = color.New(color.Bold, color.FgYellow)

// printf prints a message with no prefix.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// warningf prints a message prefixed with a bold yellow "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	warningColor.Fprint(w, "Warning: ")
	printf(w, format, a...)
}

// newLogger returns a logger writing to the app's error writer, at debug level when --debug is set.
// With --log-file the same lines are also appended to that file; the returned func closes it.
func newLogger(c *cli.Context, name string) (logging.Logger, func() error) {
	logger := logging.NewBlankLogger(name)
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	if !c.Bool(generalFlagDebug) {
		logger.SetLevel(logging.INFO)
	}
	if !c.IsSet(generalFlagLogFile) {
		return logger, func() error { return nil }
	}
	file := logging.NewFileAppender(c.Path(generalFlagLogFile))
	logger.AddAppender(file)
	return logger, file.Close
}

// parseOverrides turns repeated key=value flags into config overrides. Values stay strings and
// are converted to the field's type when the config is decoded.
func parseOverrides(pairs []string) (map[string]interface{}, error) {
	overrides := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, errors.Errorf("override %q must have the form key=value", pair)
		}
		overrides[key] = value
	}
	return overrides, nil
}

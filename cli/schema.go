package cli

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/rgbdcapture/manifest"
)

// SchemaAction prints the JSON schema of a manifest or of a configuration file.
func SchemaAction(c *cli.Context) error {
	name := "manifest"
	if c.Args().Len() > 0 {
		name = c.Args().First()
	}
	schema, ok := manifest.Schemas[name]
	if !ok {
		names := make([]string, 0, len(manifest.Schemas))
		for n := range manifest.Schemas {
			names = append(names, n)
		}
		sort.Strings(names)
		return errors.Errorf("unknown schema %q, expected one of %v", name, names)
	}
	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", out)
	return nil
}

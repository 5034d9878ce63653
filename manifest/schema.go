package manifest

import (
	"github.com/invopop/jsonschema"

	"go.viam.com/rgbdcapture/config"
)

// Schemas maps a document name to the JSON schema describing it.
var Schemas = map[string]*jsonschema.Schema{
	"manifest":      jsonschema.Reflect(&Manifest{}),
	"writer-config": jsonschema.Reflect(&config.WriterConfig{}),
	"reader-config": jsonschema.Reflect(&config.ReaderConfig{}),
}

package config

import "github.com/invopop/jsonschema"

// GenerateJSONSchema reflects the configuration file structure into a JSON
// Schema so editors can validate and complete schemadoc config files.
func GenerateJSONSchema() (*jsonschema.Schema, error) {
	r := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  false,
	}

	schema := r.Reflect(&Config{})
	schema.Title = "schemadoc configuration"
	schema.Description = "Configuration file schema for the schemadoc CLI"
	return schema, nil
}

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/pelletier/go-toml/v2"
)

// WriteConfig writes cfg as TOML, fields in definition order.
func WriteConfig(cfg *Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)

	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), filePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Schema returns the JSON schema of the configuration file.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{FieldNameTag: "toml"}
	schema := r.Reflect(&Config{})
	schema.ID = "https://github.com/bnema/careshell/config.schema.json"
	schema.Title = "careshell configuration"
	return schema
}

// GenerateSchemaFile writes the configuration JSON schema to path.
func GenerateSchemaFile(path string) error {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write schema file: %w", err)
	}
	return nil
}

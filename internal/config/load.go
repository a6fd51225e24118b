package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	rxerrors "github.com/AnatoleLucet/reactive/internal/errors"
	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// supportedMajor is the only config major version this engine understands.
const supportedMajor = "v1"

//go:embed reactive_schema_v1.json
var schemaBytes []byte

var (
	schema     *gojsonschema.Schema
	schemaErr  error
	schemaOnce sync.Once
)

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		if len(schemaBytes) == 0 {
			schemaErr = rxerrors.NewConfigError("embedded config schema is empty", nil)
			return
		}

		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaBytes))
		if schemaErr != nil {
			schemaErr = rxerrors.NewConfigError("failed to compile embedded config schema", schemaErr)
		}
	})

	return schema, schemaErr
}

// Parse decodes a YAML config document on top of Default. The document is
// validated against the embedded JSON schema before decoding, and its
// schemaVersion must share the engine's major version.
func Parse(document []byte) (Config, error) {
	cfg := Default()

	if len(bytes.TrimSpace(document)) == 0 {
		return cfg, rxerrors.NewConfigError("config document cannot be empty", nil)
	}

	if err := ValidateWithSchema(document); err != nil {
		return cfg, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(document))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Default(), rxerrors.NewConfigError("failed to decode config YAML", err)
	}

	version := cfg.SchemaVersion
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if !semver.IsValid(version) {
		return Default(), rxerrors.NewValidationError(fmt.Sprintf("invalid schemaVersion '%s'", cfg.SchemaVersion), nil)
	}
	if semver.Major(version) != supportedMajor {
		return Default(), rxerrors.NewValidationError(
			fmt.Sprintf("schemaVersion '%s' is not compatible with engine requirement '%s'", cfg.SchemaVersion, supportedMajor),
			nil,
		)
	}

	return cfg, nil
}

// Load reads and parses the config file at path.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), rxerrors.NewConfigError("config path cannot be empty", nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), rxerrors.NewConfigError(fmt.Sprintf("failed to read config file '%s'", path), err)
	}

	return Parse(data)
}

// ValidateWithSchema checks a YAML document against the embedded schema.
func ValidateWithSchema(document []byte) error {
	s, err := loadSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := yaml.Unmarshal(document, &doc); err != nil {
		return rxerrors.NewConfigError("failed to parse config YAML for schema validation", err)
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return rxerrors.NewConfigError("schema validation process failed", err)
	}

	if !result.Valid() {
		var msg strings.Builder
		msg.WriteString("config failed JSON schema validation:")
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "(root)" || field == "" {
				field = desc.Context().String()
			}
			fmt.Fprintf(&msg, "\n  - field '%s': %s", field, desc.Description())
		}
		return rxerrors.NewValidationError(msg.String(), nil)
	}

	return nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ExtraSettings is the optional JSON extension block referenced by the
// config file's extra_config_file key. It carries the sub-configuration
// for components that don't fit the flat key=value format.
type ExtraSettings struct {
	NATS  NATSSettings  `json:"nats"`
	JWT   JWTSettings   `json:"jwt"`
	S3    S3Settings    `json:"s3"`
	Audit AuditSettings `json:"audit"`
	Watch WatchSettings `json:"watch"`
}

type NATSSettings struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	Subject string `json:"subject"`
}

type JWTSettings struct {
	Enabled bool   `json:"enabled"`
	Secret  string `json:"secret"`
}

type S3Settings struct {
	AccessKey string `json:"accessKey"`
	SecretKey string `json:"secretKey"`
}

type AuditSettings struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type WatchSettings struct {
	Enabled         bool `json:"enabled"`
	IntervalSeconds int  `json:"intervalSeconds"`
}

const extraSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"nats": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"enabled": {"type": "boolean"},
				"url": {"type": "string"},
				"subject": {"type": "string"}
			}
		},
		"jwt": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"enabled": {"type": "boolean"},
				"secret": {"type": "string"}
			}
		},
		"s3": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"accessKey": {"type": "string"},
				"secretKey": {"type": "string"}
			}
		},
		"audit": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"enabled": {"type": "boolean"},
				"path": {"type": "string"}
			}
		},
		"watch": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"enabled": {"type": "boolean"},
				"intervalSeconds": {"type": "integer", "minimum": 1}
			}
		}
	}
}`

// Validate checks instance against schema, the same compile-then-validate
// pattern used across this codebase's configuration layers.
func Validate(schema string, instance []byte) error {
	sch, err := jsonschema.CompileString("extra-config.json", schema)
	if err != nil {
		return fmt.Errorf("config: compile schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(instance, &v); err != nil {
		return fmt.Errorf("config: unmarshal extra config: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("config: validate extra config: %w", err)
	}
	return nil
}

// LoadExtra reads, schema-validates, and decodes the JSON extension file
// at path.
func LoadExtra(path string) (ExtraSettings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ExtraSettings{}, fmt.Errorf("config: open extra config %q: %w", path, err)
	}
	if err := Validate(extraSchema, raw); err != nil {
		return ExtraSettings{}, err
	}

	var extra ExtraSettings
	if err := json.Unmarshal(raw, &extra); err != nil {
		return ExtraSettings{}, fmt.Errorf("config: decode extra config: %w", err)
	}
	return extra, nil
}

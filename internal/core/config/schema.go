package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchema describes the shape of config.json. Unknown top-level keys
// are tolerated; known sections are type-checked before viper decodes them.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "order_details": {
      "type": "object",
      "properties": {
        "order_number": {"type": "string"},
        "mobile_number": {"type": "string"}
      }
    },
    "browser_settings": {
      "type": "object",
      "properties": {
        "headless": {"type": "boolean"},
        "window_size": {"type": "string", "pattern": "^\\d+\\s*,\\s*\\d+$"},
        "wait_timeout": {"type": "integer", "minimum": 1}
      }
    },
    "site": {
      "type": "object",
      "properties": {
        "tracking_url": {"type": "string", "minLength": 1}
      }
    },
    "batch": {
      "type": "object",
      "properties": {
        "orders_file": {"type": "string"},
        "customers_file": {"type": "string"},
        "order_prefix": {"type": "string"},
        "order_start": {"type": "integer", "minimum": 0},
        "order_end": {"type": "integer", "minimum": 0},
        "delay": {"type": "integer", "minimum": 0},
        "progress_file": {"type": "string", "minLength": 1},
        "results_file": {"type": "string", "minLength": 1}
      }
    },
    "audit": {
      "type": "object",
      "properties": {
        "enabled": {"type": "boolean"},
        "dir": {"type": "string"},
        "screenshots": {"type": "boolean"},
        "save_html": {"type": "boolean"}
      }
    },
    "proxy": {
      "type": "object",
      "properties": {
        "enabled": {"type": "boolean"},
        "hostname": {"type": "string"},
        "port": {"type": "integer", "minimum": 0, "maximum": 65535},
        "username": {"type": "string"},
        "password": {"type": "string"}
      }
    },
    "redis": {
      "type": "object",
      "properties": {
        "enabled": {"type": "boolean"},
        "url": {"type": "string"},
        "key": {"type": "string"}
      }
    },
    "server": {
      "type": "object",
      "properties": {
        "port": {"type": "integer", "minimum": 1, "maximum": 65535}
      }
    },
    "logging": {
      "type": "object",
      "properties": {
        "environment": {"type": "string"},
        "level": {"type": "string", "enum": ["debug", "info", "warn", "error"]}
      }
    }
  }
}`

// validateSchema validates raw config.json bytes against configSchema.
func validateSchema(raw []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("config.schema.json", strings.NewReader(configSchema)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("config.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}
	return nil
}

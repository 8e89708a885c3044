package replica

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaFile = "snapshot-schema.json"

// Schema describes the JSON form of a Snapshot. Value ranges are left to
// timeline.State.Validate.
const Schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "tempomesh document snapshot",
  "type": "object",
  "required": ["origin", "lamport", "state", "savedAt"],
  "additionalProperties": false,
  "properties": {
    "origin": {"type": "string"},
    "lamport": {"type": "integer", "minimum": 0},
    "savedAt": {"type": "string"},
    "state": {
      "type": "object",
      "required": ["referenceInstant", "tempo", "isPlaying", "pausedPosition"],
      "additionalProperties": false,
      "properties": {
        "referenceInstant": {"type": ["integer", "null"]},
        "tempo": {"type": "number"},
        "isPlaying": {"type": "boolean"},
        "pausedPosition": {"type": "number"}
      }
    }
  }
}`

// ValidateSchema checks that data is a snapshot document.
func ValidateSchema(data []byte) error {
	sch, err := jsonschema.CompileString(schemaFile, Schema)
	if err != nil {
		return fmt.Errorf("compile snapshot json schema: %w", err)
	}
	var v any
	if err = json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	if err = sch.Validate(v); err != nil {
		return fmt.Errorf("validate snapshot data: %w", err)
	}
	return nil
}

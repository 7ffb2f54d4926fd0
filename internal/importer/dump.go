package importer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/storage"
)

// ExtractRecords finds the workout records in a dump. Three shapes are
// accepted:
//   - the stored value itself, versioned envelope or bare browser array
//   - a whole local storage dump, {"workouts": "<json string>", ...}
//   - the same dump with the value already parsed, {"workouts": [...]}
func ExtractRecords(data []byte) ([]models.Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return storage.Decode(data)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decoding dump: %w", err)
	}
	if _, versioned := probe["version"]; versioned {
		return storage.Decode(data)
	}

	raw, ok := probe[storage.DefaultKey]
	if !ok {
		return nil, fmt.Errorf("decoding dump: no %q key", storage.DefaultKey)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("decoding dump value: %w", err)
		}
		raw = []byte(inner)
	}
	return storage.Decode(raw)
}

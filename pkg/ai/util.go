package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// UnmarshalFlexible unmarshals JSON into out, repairing malformed input if
// standard parsing fails. Hand-maintained files and model output both tend to
// carry trailing commas, unquoted keys, or stray fencing; jsonrepair handles
// those shapes.
//
// Example:
//
//	var people []Person
//	UnmarshalFlexible(`[{"name":"Alice"},]`, &people) // trailing comma repaired
func UnmarshalFlexible(input string, out any) error {
	input = strings.TrimSpace(input)

	if err := json.Unmarshal([]byte(input), out); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(input)
	if err != nil {
		return fmt.Errorf("json repair failed: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf("unmarshal failed after repair: %w", err)
	}
	return nil
}

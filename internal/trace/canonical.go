package trace

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalCanonical serializes a snapshot for golden-file comparison.
//
// The encoding is deterministic: struct field order is fixed, HTML escaping
// is disabled (< > & appear literally), output is indented and ends with a
// newline. Labels were already NFC-normalized at record time, so two runs
// that record the same logical events produce byte-identical output.
func MarshalCanonical(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("marshal trace snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

package main

import (
	"encoding/json"
	"io"
)

// writeJSON encodes v as indented JSON. HTML escaping is off so filenames with & or <
// come through as written.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

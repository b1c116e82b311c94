package main

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// writeStructured encodes v for the json and yaml formats. It reports false
// for any other format so the caller can render its own table.
func writeStructured(w io.Writer, format string, v interface{}) (bool, error) {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return true, enc.Encode(v)
	}
	return false, nil
}

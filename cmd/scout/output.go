package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// writeReport renders v in the format chosen with --output. YAML keys follow
// the JSON field names.
func writeReport(w io.Writer, v any) error {
	switch format := viper.GetString("output"); format {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputYAML = "yaml"
	outputJSON = "json"
)

func validateOutput(format string) error {
	switch format {
	case outputYAML, outputJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q, use yaml or json", format)
	}
}

func (o *rootOptions) print(cmd *cobra.Command, v any) error {
	out := cmd.OutOrStdout()
	if o.output == outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

package cmd

import (
	"encoding/json"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	OutputFormatYAML  OutputFormat = "yaml"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatTable OutputFormat = "table" // Default
)

// GetOutputFormat returns the output format from viper config or flag.
func GetOutputFormat() OutputFormat {
	format := strings.ToLower(viper.GetString("output"))
	switch format {
	case "yaml", "y":
		return OutputFormatYAML
	case "json", "j":
		return OutputFormatJSON
	default:
		return OutputFormatTable
	}
}

// PrintResource prints a resource in the specified format. Table format is
// resource-specific and handled by individual commands; JSON is the fallback.
func PrintResource(w io.Writer, resource interface{}, format OutputFormat) error {
	switch format {
	case OutputFormatYAML:
		return printYAML(w, resource)
	default:
		return printJSON(w, resource)
	}
}

func printYAML(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(v)
}

func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// NewTabWriter creates a new tabwriter for table output.
func NewTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
}

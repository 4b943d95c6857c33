package helpers

// OutputFormat represents different output formats
type OutputFormat string

const (
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatTable OutputFormat = "table"
	OutputFormatYAML  OutputFormat = "yaml"
)

// ParseOutputFormat validates a --format value
func ParseOutputFormat(value string) (OutputFormat, bool) {
	switch format := OutputFormat(value); format {
	case OutputFormatJSON, OutputFormatTable, OutputFormatYAML:
		return format, true
	default:
		return "", false
	}
}

// Package export renders scenario reports as text, JSON or MessagePack.
package export

import (
	"fmt"
	"strings"

	"gridpath/scenario"
)

// Format represents an export format
type Format string

const (
	// FormatASCII draws each query's grid and path as text (default)
	FormatASCII Format = "ascii"
	// FormatJSON writes the report as indented JSON
	FormatJSON Format = "json"
	// FormatMsgpack writes the report as MessagePack
	FormatMsgpack Format = "msgpack"
)

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a report to the target format
	Export(r *scenario.Report) ([]byte, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatASCII:
		return NewASCIIExporter(), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatMsgpack:
		return NewMsgpackExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "ascii", "text", "txt":
		return FormatASCII, nil
	case "json":
		return FormatJSON, nil
	case "msgpack", "mpk":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatASCII,
		FormatJSON,
		FormatMsgpack,
	}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatASCII:   "Grid drawings with the path overlaid",
		FormatJSON:    "Structured report for scripts",
		FormatMsgpack: "Compact binary report",
	}
}

// Package export writes derived render variants for non-interactive use.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"ghforecast/internal/viewmodel"
)

// Format is an output format of the fetch command
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
	FormatPNG     Format = "png"
)

// Formats lists every supported format
var Formats = []Format{FormatText, FormatJSON, FormatCSV, FormatParquet, FormatPNG}

// ParseFormat maps a flag value to a Format
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatText, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q (want one of %s)", s, joinFormats())
}

// Binary reports whether the format must not be written to a terminal
func (f Format) Binary() bool { return f == FormatParquet || f == FormatPNG }

// Options tune the writers
type Options struct {
	Width   int  // text width, detected from the terminal when 0
	NoColor bool // disables colored table headers
	Chart   int  // index of the chart rendered by the png format
}

// Write renders v to w in format f
func Write(w io.Writer, v viewmodel.RenderVariant, f Format, opts Options) error {
	switch f {
	case FormatText, "":
		return WriteText(w, v, opts)
	case FormatJSON:
		return WriteJSON(w, v)
	case FormatCSV:
		return WriteCSV(w, v)
	case FormatParquet:
		return WriteParquet(w, v)
	case FormatPNG:
		return WritePNG(w, v, opts.Chart)
	default:
		return fmt.Errorf("unsupported output format %q", f)
	}
}

// WriteJSON encodes v with two-space indentation
func WriteJSON(w io.Writer, v viewmodel.RenderVariant) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// terminalWidth returns the override when set, else the stdout width, else 80
func terminalWidth(override int) int {
	if override > 0 {
		return override
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

func joinFormats() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

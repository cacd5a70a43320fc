package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"ghforecast/internal/viewmodel"
)

// Row is one flattened record of a variant: a chart point or an image reference
type Row struct {
	Variant string  `parquet:"variant,snappy"`
	Section string  `parquet:"section,snappy"`
	Kind    string  `parquet:"kind,snappy"`
	Label   string  `parquet:"label,snappy"`
	Value   float64 `parquet:"value,snappy"`
	URL     string  `parquet:"url,snappy"`
}

// Rows flattens v. Chart points come first in chart order, then images in block order.
func Rows(v viewmodel.RenderVariant) []Row {
	variant := v.Kind.String()
	var rows []Row
	for _, c := range v.Charts {
		for _, p := range c.Data {
			rows = append(rows, Row{Variant: variant, Section: c.Title, Kind: "point", Label: p.Label, Value: p.Value})
		}
	}
	for _, b := range v.Blocks {
		for _, img := range b.Images {
			rows = append(rows, Row{Variant: variant, Section: b.Title, Kind: "image", Label: img.Caption, URL: img.URL})
		}
	}
	return rows
}

var csvHeader = []string{"variant", "section", "kind", "label", "value", "url"}

// WriteCSV writes Rows(v) with a header line
func WriteCSV(w io.Writer, v viewmodel.RenderVariant) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range Rows(v) {
		value := ""
		if r.Kind == "point" {
			value = formatValue(r.Value)
		}
		if err := cw.Write([]string{r.Variant, r.Section, r.Kind, r.Label, value, r.URL}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteParquet writes Rows(v) as a parquet file
func WriteParquet(w io.Writer, v viewmodel.RenderVariant) error {
	writer := parquet.NewGenericWriter[Row](w)
	if _, err := writer.Write(Rows(v)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

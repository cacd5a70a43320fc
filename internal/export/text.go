package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"ghforecast/internal/viewmodel"
)

// WriteText prints each chart as a two-column table followed by the image blocks
func WriteText(w io.Writer, v viewmodel.RenderVariant, opts Options) error {
	heading := color.New(color.FgCyan, color.Bold)
	muted := color.New(color.FgHiBlack)
	if opts.NoColor {
		heading.DisableColor()
		muted.DisableColor()
	}

	if v.Kind == viewmodel.KindLoading {
		_, err := fmt.Fprintln(w, muted.Sprint("Loading..."))
		return err
	}

	width := terminalWidth(opts.Width)

	for _, c := range v.Charts {
		if _, err := fmt.Fprintln(w, heading.Sprint(c.Title)); err != nil {
			return err
		}
		if len(c.Data) == 0 {
			if _, err := fmt.Fprintln(w, muted.Sprint("  no data")); err != nil {
				return err
			}
			continue
		}

		table := tablewriter.NewWriter(w)
		table.Header([]string{"Label", c.YAxisText})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignRight}
		})

		var data [][]string
		for _, p := range c.Data {
			data = append(data, []string{truncate(p.Label, width/2), formatValue(p.Value)})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	for _, b := range v.Blocks {
		if _, err := fmt.Fprintln(w, heading.Sprint(b.Title)); err != nil {
			return err
		}

		table := tablewriter.NewWriter(w)
		table.Header([]string{"Image", "URL"})

		var data [][]string
		for _, img := range b.Images {
			url := img.URL
			if url == "" {
				url = "(none)"
			}
			data = append(data, []string{truncate(img.Caption, width/3), truncate(url, width-width/3-10)})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	return nil
}

func formatValue(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// truncate shortens s to n runes, marking the cut with "..."
func truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-3])) + "..."
}

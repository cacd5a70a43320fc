package views

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"ghforecast/internal/viewmodel"
)

// ImageRenderer lists image references. Terminals cannot show the images,
// so each reference is printed with its alt text and URL.
type ImageRenderer struct {
	styles *Styles
}

// NewImageRenderer creates a new image renderer
func NewImageRenderer(styles *Styles) *ImageRenderer {
	return &ImageRenderer{styles: styles}
}

// Render draws one block of images
func (r *ImageRenderer) Render(block viewmodel.ImageBlock, width int) string {
	var b strings.Builder
	b.WriteString(r.styles.BlockTitle.Render(ansi.Truncate(block.Title, width, "…")))
	b.WriteString("\n")

	for _, img := range block.Images {
		b.WriteString("  ")
		b.WriteString(r.styles.Caption.Render(img.Caption))
		b.WriteString("\n    ")
		if img.URL == "" {
			b.WriteString(r.styles.Dim.Render("[" + img.Alt + "] not available"))
		} else {
			b.WriteString(r.styles.URL.Render(ansi.Truncate(img.URL, max(width-4, 8), "…")))
		}
		b.WriteString("\n")
	}
	return b.String()
}

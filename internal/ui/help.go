package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	starsLabel string
	forksLabel string
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer(starsLabel, forksLabel string) *HelpRenderer {
	return &HelpRenderer{starsLabel: starsLabel, forksLabel: forksLabel}
}

// RenderHelpContentPlain generates help content with colors for pager
func (r *HelpRenderer) RenderHelpContentPlain() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	noteStyle := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))

	var help strings.Builder

	help.WriteString(titleStyle.Render("ghforecast Help"))
	help.WriteString("\n")

	// Catalog section
	help.WriteString(sectionStyle.Render("Catalog"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("↑/↓, j/k"), descStyle.Render("Move through repositories")))
	help.WriteString(fmt.Sprintf("  %s     %s\n", keyStyle.Render("Enter"), descStyle.Render("Load analytics for the highlighted entry")))
	help.WriteString(fmt.Sprintf("  %s         %s\n", keyStyle.Render("r"), descStyle.Render("Reload the active entry")))
	help.WriteString(fmt.Sprintf("  %s         %s\n", keyStyle.Render("/"), descStyle.Render("Filter the list")))
	help.WriteString("\n")

	// Dashboard section
	help.WriteString(sectionStyle.Render("Dashboard"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render("PgUp/PgDn"), descStyle.Render("Scroll charts and images")))
	help.WriteString("\n")
	help.WriteString(noteStyle.Render(fmt.Sprintf("  %q compares stars and %q compares forks", r.starsLabel, r.forksLabel)))
	help.WriteString("\n")
	help.WriteString(noteStyle.Render("  Every other entry shows monthly issues and forecast images"))
	help.WriteString("\n")

	// Other section
	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s         %s\n", keyStyle.Render("?"), descStyle.Render("Show this help")))
	help.WriteString(fmt.Sprintf("  %s         %s", keyStyle.Render("q"), descStyle.Render("Quit")))

	return help.String()
}

// HelpOps handles help operations
type HelpOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewHelpOps creates a new help operations instance
func NewHelpOps() *HelpOps {
	return &HelpOps{}
}

// SetProgram sets the program reference used to release the terminal
func (h *HelpOps) SetProgram(p *tea.Program) {
	h.program = p
}

// ShowHelpInPager shows help content using ov pager
func (h *HelpOps) ShowHelpInPager(helpContent string) error {
	if h.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(helpContent))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

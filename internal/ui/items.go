package ui

import (
	"github.com/charmbracelet/bubbles/list"

	"ghforecast/internal/domain"
)

// catalogItem adapts a catalog entry to the list component
type catalogItem struct {
	entry domain.RepositorySelection
}

func (i catalogItem) Title() string { return i.entry.Label }

func (i catalogItem) Description() string {
	switch i.entry.Mode {
	case domain.ModeStars:
		return "stars across all repos"
	case domain.ModeForks:
		return "forks across all repos"
	default:
		return i.entry.Key
	}
}

func (i catalogItem) FilterValue() string { return i.entry.Label + " " + i.entry.Key }

func catalogItems(entries []domain.RepositorySelection) []list.Item {
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, catalogItem{entry: e})
	}
	return items
}

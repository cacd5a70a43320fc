// Package catalog holds the fixed, ordered set of selectable repositories
// and the two aggregate pseudo-entries.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"ghforecast/internal/config"
	"ghforecast/internal/domain"
)

// ErrNotFound is returned by Resolve when no entry matches
var ErrNotFound = errors.New("repository not in catalog")

// Options names the sentinel labels of the aggregate entries
type Options struct {
	StarsLabel string
	ForksLabel string
}

// Catalog is immutable once built
type Catalog struct {
	entries    []domain.RepositorySelection
	defaultIdx int
}

// ModeForLabel classifies a label by case-insensitive comparison against the
// sentinel labels. Used for configured entries that do not declare a kind.
func ModeForLabel(label string, opts Options) domain.Mode {
	return config.AggregateSettings{StarsLabel: opts.StarsLabel, ForksLabel: opts.ForksLabel}.ModeFor(label)
}

// New builds a catalog from configured entries. Single repositories keep their
// order; the stars and forks aggregates follow, generated from every single
// repository unless an aggregate of that mode was configured explicitly.
func New(repos []config.RepositoryEntry, defaultKey string, opts Options) (*Catalog, error) {
	var singles, custom []domain.RepositorySelection
	hasStars, hasForks := false, false

	for _, r := range repos {
		label := r.Label
		if label == "" {
			label = r.Key
		}
		mode, ok := domain.ParseMode(r.Kind)
		if !ok {
			return nil, fmt.Errorf("repository %q: unknown kind %q", r.Key, r.Kind)
		}
		if r.Kind == "" {
			mode = ModeForLabel(label, opts)
		}

		entry := domain.RepositorySelection{Key: r.Key, Label: label, Mode: mode}
		switch mode {
		case domain.ModeStars:
			hasStars = true
			custom = append(custom, entry)
		case domain.ModeForks:
			hasForks = true
			custom = append(custom, entry)
		default:
			singles = append(singles, entry)
		}
	}

	if len(singles) == 0 {
		return nil, errors.New("catalog needs at least one repository")
	}

	keys := make([]string, len(singles))
	for i, s := range singles {
		keys[i] = s.Key
	}

	entries := append([]domain.RepositorySelection{}, singles...)
	if !hasStars {
		entries = append(entries, domain.RepositorySelection{
			Key:   strings.Join(keys, domain.StarsDelimiter),
			Label: opts.StarsLabel,
			Mode:  domain.ModeStars,
		})
	}
	if !hasForks {
		entries = append(entries, domain.RepositorySelection{
			Key:   strings.Join(keys, domain.ForksDelimiter),
			Label: opts.ForksLabel,
			Mode:  domain.ModeForks,
		})
	}
	entries = append(entries, custom...)

	c := &Catalog{entries: entries}
	if defaultKey != "" {
		idx := c.indexOf(defaultKey)
		if idx < 0 {
			return nil, fmt.Errorf("default repository %q: %w", defaultKey, ErrNotFound)
		}
		c.defaultIdx = idx
	}
	return c, nil
}

// FromConfig builds the catalog described by cfg
func FromConfig(cfg *config.Config) (*Catalog, error) {
	return New(cfg.Repositories, cfg.DefaultRepository, Options{
		StarsLabel: cfg.Aggregates.StarsLabel,
		ForksLabel: cfg.Aggregates.ForksLabel,
	})
}

// Default returns the catalog of the web dashboard
func Default() *Catalog {
	c, err := FromConfig(config.DefaultConfig())
	if err != nil {
		panic(err)
	}
	return c
}

// Entries returns a copy of the ordered entries
func (c *Catalog) Entries() []domain.RepositorySelection {
	return append([]domain.RepositorySelection(nil), c.entries...)
}

// Len returns the number of entries
func (c *Catalog) Len() int { return len(c.entries) }

// At returns the entry at index i
func (c *Catalog) At(i int) (domain.RepositorySelection, bool) {
	if i < 0 || i >= len(c.entries) {
		return domain.RepositorySelection{}, false
	}
	return c.entries[i], true
}

// DefaultSelection is the entry selected on startup
func (c *Catalog) DefaultSelection() domain.RepositorySelection {
	return c.entries[c.defaultIdx]
}

// DefaultIndex is the position of DefaultSelection
func (c *Catalog) DefaultIndex() int { return c.defaultIdx }

// Find looks an entry up by its exact key
func (c *Catalog) Find(key string) (domain.RepositorySelection, bool) {
	if idx := c.indexOf(key); idx >= 0 {
		return c.entries[idx], true
	}
	return domain.RepositorySelection{}, false
}

func (c *Catalog) indexOf(key string) int {
	for i, e := range c.entries {
		if e.Key == key {
			return i
		}
	}
	return -1
}

// Resolve matches query against keys and labels, ignoring case. The mode
// names "stars" and "forks" select the first aggregate of that mode. When
// nothing matches, the error suggests the closest label.
func (c *Catalog) Resolve(query string) (domain.RepositorySelection, error) {
	q := strings.TrimSpace(query)
	if e, ok := c.Find(q); ok {
		return e, nil
	}
	for _, e := range c.entries {
		if strings.EqualFold(e.Key, q) || strings.EqualFold(e.Label, q) {
			return e, nil
		}
	}
	if mode, ok := domain.ParseMode(q); ok && mode != domain.ModeDefault {
		for _, e := range c.entries {
			if e.Mode == mode {
				return e, nil
			}
		}
	}

	if suggestion := c.closest(q); suggestion != "" {
		return domain.RepositorySelection{}, fmt.Errorf("%w: %q (did you mean %q?)", ErrNotFound, query, suggestion)
	}
	return domain.RepositorySelection{}, fmt.Errorf("%w: %q", ErrNotFound, query)
}

// closest returns the label or key nearest to q, or "" when nothing is close
func (c *Catalog) closest(q string) string {
	lq := strings.ToLower(q)
	best, bestDist := "", -1
	for _, e := range c.entries {
		for _, candidate := range []string{e.Label, e.Key} {
			if e.IsAggregate() && candidate == e.Key {
				continue
			}
			d := levenshtein.ComputeDistance(lq, strings.ToLower(candidate))
			if bestDist < 0 || d < bestDist {
				best, bestDist = candidate, d
			}
		}
	}
	if bestDist < 0 || bestDist > len(lq)/2+2 {
		return ""
	}
	return best
}

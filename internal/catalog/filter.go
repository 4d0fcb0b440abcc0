// Package catalog derives the filtered and ranked groupings shown on the home view.
// Every function here is pure and never mutates its input.
package catalog

import (
	"slices"
	"strings"

	"github.com/router-for-me/ModelMarket/internal/market"
)

// ChipAll is the quick filter that matches every category.
const ChipAll = "All"

// chips is the quick-filter list in display order.
var chips = []string{ChipAll, "Chatbots", "Agents", "Image", "Code", "Productivity", "Voice", "Research"}

// Chips returns the quick-filter list in display order.
func Chips() []string {
	return slices.Clone(chips)
}

// Predicates selects filter predicates.
type Predicates uint8

// Filter predicates.
const (
	PredicateSearch Predicates = 1 << iota
	PredicateChip
	PredicateCategories
	PredicatePricing
	PredicateCapabilities
)

// Filter is the home view's filter state.
type Filter struct {
	Search       string   `json:"search"`
	Chip         string   `json:"chip"`
	Categories   []string `json:"categories"`
	Pricing      []string `json:"pricing"`
	Capabilities []string `json:"capabilities"`

	// Disabled predicates always match.
	Disabled Predicates `json:"-"`
}

// Matches reports whether m satisfies every enabled predicate.
func (f Filter) Matches(m market.Model) bool {
	return (f.Disabled&PredicateSearch != 0 || matchesSearch(m, f.Search)) &&
		(f.Disabled&PredicateChip != 0 || matchesChip(m, f.Chip)) &&
		(f.Disabled&PredicateCategories != 0 || len(f.Categories) == 0 || slices.Contains(f.Categories, m.Category)) &&
		(f.Disabled&PredicatePricing != 0 || len(f.Pricing) == 0 || slices.Contains(f.Pricing, m.Pricing)) &&
		(f.Disabled&PredicateCapabilities != 0 || len(f.Capabilities) == 0 || intersects(f.Capabilities, m.Capabilities))
}

func matchesSearch(m market.Model, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(m.Name), needle) || strings.Contains(strings.ToLower(m.ShortDescription), needle) {
		return true
	}
	for _, tag := range m.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func matchesChip(m market.Model, chip string) bool {
	if chip == "" || chip == ChipAll {
		return true
	}
	return strings.EqualFold(m.Category, chip)
}

func intersects(want, have []string) bool {
	for _, value := range want {
		if slices.Contains(have, value) {
			return true
		}
	}
	return false
}

// Apply returns the models matching f, in input order.
func Apply(models []market.Model, f Filter) []market.Model {
	out := make([]market.Model, 0, len(models))
	for _, m := range models {
		if f.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}

// ClearSidebar resets the category, pricing, and capability selections.
// Search text and the active chip are kept.
func (f Filter) ClearSidebar() Filter {
	f.Categories = nil
	f.Pricing = nil
	f.Capabilities = nil
	return f
}

// Searching reports whether a search query is active.
func (f Filter) Searching() bool {
	return f.Search != ""
}

// ShowCarousels reports whether the ranked carousels are visible.
func (f Filter) ShowCarousels() bool {
	return f.Search == "" && (f.Chip == "" || f.Chip == ChipAll)
}

// Toggle returns a copy of set with value removed if present, or appended otherwise.
func Toggle(set []string, value string) []string {
	if idx := slices.Index(set, value); idx >= 0 {
		return slices.Delete(slices.Clone(set), idx, idx+1)
	}
	return append(slices.Clone(set), value)
}

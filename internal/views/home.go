package views

import (
	"context"
	"slices"
	"sync"

	"github.com/router-for-me/ModelMarket/internal/catalog"
	"github.com/router-for-me/ModelMarket/internal/market"
	log "github.com/sirupsen/logrus"
)

// HomeFetchLimit is the page size requested when the home view loads.
const HomeFetchLimit = 100

// SearchChanged replaces the search text.
type SearchChanged struct{ Query string }

// ChipSelected activates a quick-filter chip.
type ChipSelected struct{ Chip string }

// CategoryToggled adds or removes a sidebar category.
type CategoryToggled struct{ Category string }

// PricingToggled adds or removes a sidebar pricing tier.
type PricingToggled struct{ Pricing string }

// CapabilityToggled adds or removes a sidebar capability.
type CapabilityToggled struct{ Capability string }

// FiltersCleared resets the sidebar selections.
type FiltersCleared struct{}

func (SearchChanged) isEvent()     {}
func (ChipSelected) isEvent()      {}
func (CategoryToggled) isEvent()   {}
func (PricingToggled) isEvent()    {}
func (CapabilityToggled) isEvent() {}
func (FiltersCleared) isEvent()    {}

// HomeState is a snapshot of the home view.
type HomeState struct {
	Models  []market.Model
	Loading bool
	Err     string
	Filter  catalog.Filter
	Gen     Generation
}

// NewHomeState returns the initial home state.
func NewHomeState() HomeState {
	return HomeState{Loading: true, Filter: catalog.Filter{Chip: catalog.ChipAll}}
}

// ReduceHome applies ev to s.
func ReduceHome(s HomeState, ev Event) HomeState {
	switch e := ev.(type) {
	case FetchStarted:
		s.Gen++
		s.Loading = true
		s.Err = ""
	case FetchSucceeded:
		if e.Gen != s.Gen {
			return s
		}
		s.Models = slices.Clone(e.Models)
		s.Loading = false
	case FetchFailed:
		if e.Gen != s.Gen {
			return s
		}
		s.Err = e.Message
		s.Loading = false
	case SearchChanged:
		s.Filter.Search = e.Query
	case ChipSelected:
		s.Filter.Chip = e.Chip
	case CategoryToggled:
		s.Filter.Categories = catalog.Toggle(s.Filter.Categories, e.Category)
	case PricingToggled:
		s.Filter.Pricing = catalog.Toggle(s.Filter.Pricing, e.Pricing)
	case CapabilityToggled:
		s.Filter.Capabilities = catalog.Toggle(s.Filter.Capabilities, e.Capability)
	case FiltersCleared:
		s.Filter = s.Filter.ClearSidebar()
	case NoticeDismissed:
		s.Err = ""
	}
	return s
}

// HomeSections is the derived content of the home view.
type HomeSections struct {
	Chips         []string       `json:"chips"`
	Filter        catalog.Filter `json:"filter"`
	Loading       bool           `json:"loading"`
	Error         string         `json:"error,omitempty"`
	ShowCarousels bool           `json:"show_carousels"`
	Trending      []catalog.Card `json:"trending,omitempty"`
	Newest        []catalog.Card `json:"newest,omitempty"`
	Featured      []catalog.Card `json:"featured,omitempty"`
	Heading       string         `json:"heading"`
	Results       []catalog.Card `json:"results"`
}

// Sections derives the carousels and result grid from s.
func (s HomeState) Sections() HomeSections {
	results := catalog.Apply(s.Models, s.Filter)
	out := HomeSections{
		Chips:         catalog.Chips(),
		Filter:        s.Filter,
		Loading:       s.Loading,
		Error:         s.Err,
		ShowCarousels: s.Filter.ShowCarousels(),
		Heading:       catalog.ResultsHeading(s.Filter, len(results)),
		Results:       catalog.Cards(results),
	}
	if out.ShowCarousels {
		out.Trending = catalog.Cards(catalog.Trending(s.Models))
		out.Newest = catalog.Cards(catalog.Newest(s.Models))
		out.Featured = catalog.Cards(catalog.Featured(s.Models))
	}
	return out
}

// ModelLister lists public models.
type ModelLister interface {
	ListModels(ctx context.Context, params market.ListParams) (*market.Envelope[market.ModelList], error)
}

// Home drives the home view.
type Home struct {
	client ModelLister

	mu    sync.Mutex
	state HomeState
}

// NewHome constructs a Home controller.
func NewHome(client ModelLister) *Home {
	return &Home{client: client, state: NewHomeState()}
}

// State returns the current snapshot.
func (h *Home) State() HomeState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Dispatch applies ev and returns the new snapshot.
func (h *Home) Dispatch(ev Event) HomeState {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = ReduceHome(h.state, ev)
	return h.state
}

// Load fetches up to HomeFetchLimit models.
func (h *Home) Load(ctx context.Context) HomeState {
	gen := h.Dispatch(FetchStarted{}).Gen
	env, err := h.client.ListModels(ctx, market.ListParams{Limit: market.Int(HomeFetchLimit)})
	if err != nil {
		log.WithError(err).Warn("views: home fetch failed")
		return h.Dispatch(FetchFailed{Gen: gen, Message: err.Error()})
	}
	return h.Dispatch(FetchSucceeded{Gen: gen, Models: env.Data.Models})
}

package catalog

import (
	"time"

	"github.com/router-for-me/ModelMarket/internal/market"
)

// Card is the projection of a model rendered in listings and carousels.
type Card struct {
	ID               string    `json:"id"`
	Slug             string    `json:"slug"`
	Name             string    `json:"name"`
	ShortDescription string    `json:"shortDescription"`
	LongDescription  string    `json:"longDescription"`
	Category         string    `json:"category"`
	Tags             []string  `json:"tags"`
	Provider         string    `json:"provider"`
	Pricing          string    `json:"pricing"`
	Rating           float64   `json:"rating"`
	ReviewsCount     int       `json:"reviewsCount"`
	InstallsCount    *int      `json:"installsCount,omitempty"`
	Capabilities     []string  `json:"capabilities"`
	IsAPIAvailable   bool      `json:"isApiAvailable"`
	IsOpenSource     bool      `json:"isOpenSource"`
	LastUpdated      time.Time `json:"lastUpdated"`
	ModelType        string    `json:"modelType"`
	ExternalURL      string    `json:"externalUrl"`
	IconURL          string    `json:"iconUrl,omitempty"`
	Screenshots      []string  `json:"screenshots,omitempty"`
	Featured         bool      `json:"featured,omitempty"`
	TrendingScore    *float64  `json:"trendingScore,omitempty"`
	BestFor          []string  `json:"bestFor,omitempty"`
	Features         []string  `json:"features,omitempty"`
	ExamplePrompts   []string  `json:"examplePrompts,omitempty"`
}

// NewCard projects m into a Card.
func NewCard(m market.Model) Card {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return Card{
		ID:               m.ID,
		Slug:             m.Slug,
		Name:             m.Name,
		ShortDescription: m.ShortDescription,
		LongDescription:  m.LongDescription,
		Category:         m.Category,
		Tags:             tags,
		Provider:         m.Provider,
		Pricing:          m.Pricing,
		Rating:           m.Rating,
		ReviewsCount:     m.ReviewsCount,
		InstallsCount:    m.InstallsCount,
		Capabilities:     m.Capabilities,
		IsAPIAvailable:   m.IsAPIAvailable,
		IsOpenSource:     m.IsOpenSource,
		LastUpdated:      m.UpdatedAt.Time,
		ModelType:        m.ModelType,
		ExternalURL:      m.ExternalURL,
		IconURL:          m.IconURL,
		Screenshots:      m.Screenshots,
		Featured:         m.Featured,
		TrendingScore:    m.TrendingScore,
		BestFor:          m.BestFor,
		Features:         m.Features,
		ExamplePrompts:   m.ExamplePrompts,
	}
}

// Cards projects every model in order.
func Cards(models []market.Model) []Card {
	out := make([]Card, 0, len(models))
	for _, m := range models {
		out = append(out, NewCard(m))
	}
	return out
}

package views

import (
	"context"
	"strings"
	"sync"

	"github.com/router-for-me/ModelMarket/internal/catalog"
	"github.com/router-for-me/ModelMarket/internal/market"
	log "github.com/sirupsen/logrus"
)

// Similar-model fetch sizes for the detail view.
const (
	SimilarFetchLimit = 4
	SimilarKeep       = 3
)

// NotFoundMessage is shown when the detail view has no record and no error text.
const NotFoundMessage = "The requested model could not be found."

// DetailStarted begins loading a record.
type DetailStarted struct{ ID string }

// DetailLoaded delivers the record and its similar models for generation Gen.
type DetailLoaded struct {
	Gen     Generation
	Model   market.Model
	Similar []market.Model
}

// DetailFailed aborts the detail view for generation Gen.
type DetailFailed struct {
	Gen     Generation
	Message string
}

func (DetailStarted) isEvent() {}
func (DetailLoaded) isEvent()  {}
func (DetailFailed) isEvent()  {}

// DetailState is a snapshot of the detail view.
type DetailState struct {
	ID      string
	Loading bool
	Model   *market.Model
	Similar []market.Model
	Err     string
	Notices []Notice
	Gen     Generation
}

// ReduceDetail applies ev to s.
func ReduceDetail(s DetailState, ev Event) DetailState {
	switch e := ev.(type) {
	case DetailStarted:
		s.Gen++
		s.ID = e.ID
		s.Loading = true
		s.Err = ""
	case DetailLoaded:
		if e.Gen != s.Gen {
			return s
		}
		model := e.Model
		s.Model = &model
		s.Similar = e.Similar
		s.Loading = false
	case DetailFailed:
		if e.Gen != s.Gen {
			return s
		}
		s.Model = nil
		s.Similar = nil
		s.Err = e.Message
		s.Loading = false
		s.Notices = appendNotice(s.Notices, ErrorNotice(e.Message))
	case NoticeDismissed:
		s.Notices = dismiss(s.Notices, e.ID)
	}
	return s
}

// DetailView is the rendered detail page.
type DetailView struct {
	Loading         bool           `json:"loading"`
	Error           string         `json:"error,omitempty"`
	Model           *market.Model  `json:"model,omitempty"`
	StatusLabel     string         `json:"status_label,omitempty"`
	StatusBadge     string         `json:"status_badge,omitempty"`
	UploadedBy      string         `json:"uploaded_by,omitempty"`
	CreatedAt       string         `json:"created_at,omitempty"`
	UpdatedAt       string         `json:"updated_at,omitempty"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	Similar         []catalog.Card `json:"similar"`
	Notices         []Notice       `json:"notices,omitempty"`
}

// View renders s. A missing record without a request in flight renders the error placeholder.
func (s DetailState) View() DetailView {
	out := DetailView{Loading: s.Loading, Notices: s.Notices, Similar: []catalog.Card{}}
	if s.Loading {
		return out
	}
	if s.Err != "" || s.Model == nil {
		out.Error = s.Err
		if out.Error == "" {
			out.Error = NotFoundMessage
		}
		return out
	}
	m := *s.Model
	out.Model = &m
	out.StatusLabel = catalog.StatusLabel(m.Status)
	out.StatusBadge = catalog.BadgeVariant(m.Status)
	out.UploadedBy = m.UploadedBy.DisplayName()
	out.CreatedAt = catalog.FormatDate(m.CreatedAt.Time)
	out.UpdatedAt = catalog.FormatDate(m.UpdatedAt.Time)
	out.RejectionReason = m.EffectiveRejectionReason()
	out.Similar = catalog.Cards(s.Similar)
	return out
}

// ModelGetter fetches single records and category listings.
type ModelGetter interface {
	ModelLister
	GetModel(ctx context.Context, idOrSlug string) (*market.Envelope[market.ModelData], error)
}

// Detail drives the detail view.
type Detail struct {
	client ModelGetter

	mu    sync.Mutex
	state DetailState
}

// NewDetail constructs a Detail controller.
func NewDetail(client ModelGetter) *Detail {
	return &Detail{client: client}
}

// State returns the current snapshot.
func (d *Detail) State() DetailState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Dispatch applies ev and returns the new snapshot.
func (d *Detail) Dispatch(ev Event) DetailState {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = ReduceDetail(d.state, ev)
	return d.state
}

// Load fetches the record, then up to SimilarFetchLimit records in its category.
// Either failure aborts the view.
func (d *Detail) Load(ctx context.Context, id string) DetailState {
	id = strings.TrimSpace(id)
	gen := d.Dispatch(DetailStarted{ID: id}).Gen
	if id == "" {
		return d.Dispatch(DetailFailed{Gen: gen, Message: NotFoundMessage})
	}

	primary, err := d.client.GetModel(ctx, id)
	if err != nil {
		log.WithError(err).Warnf("views: detail fetch %s failed", id)
		return d.Dispatch(DetailFailed{Gen: gen, Message: err.Error()})
	}
	model := primary.Data.Model

	related, err := d.client.ListModels(ctx, market.ListParams{Category: model.Category, Limit: market.Int(SimilarFetchLimit)})
	if err != nil {
		log.WithError(err).Warnf("views: similar fetch for %s failed", id)
		return d.Dispatch(DetailFailed{Gen: gen, Message: err.Error()})
	}

	return d.Dispatch(DetailLoaded{
		Gen:     gen,
		Model:   model,
		Similar: catalog.Similar(model, related.Data.Models, SimilarKeep),
	})
}
